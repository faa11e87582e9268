package mcp

import "github.com/mark3labs/mcp-go/mcp"

func extractFileTool() mcp.Tool {
	return mcp.NewTool(
		"extract_file",
		mcp.WithDescription("Extract the documentation IR of one TypeScript/JavaScript module or Svelte component from disk. Returns the parsed file plus its diagnostics."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of a .ts/.tsx/.js/.jsx/.mjs/.cjs/.mts/.cts or .svelte file")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func extractSourceTool() mcp.Tool {
	return mcp.NewTool(
		"extract_source",
		mcp.WithDescription("Extract the documentation IR of in-memory source text. The path only decides the file kind and the reported name; nothing is read from disk."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Virtual file path, e.g. src/lib/Button.svelte")),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Full source text of the file")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func extractDirectoryTool() mcp.Tool {
	return mcp.NewTool(
		"extract_directory",
		mcp.WithDescription("Discover and extract every module and component under a directory. Failed files are reported per file and never abort the run."),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Directory to walk")),
		mcp.WithArray("include",
			mcp.Description("Optional doublestar patterns relative to root (e.g. ['src/**'])")),
		mcp.WithArray("exclude",
			mcp.Description("Optional doublestar patterns to skip (default: node_modules, .git, build output)")),
		mcp.WithBoolean("summary_only",
			mcp.Description("Return per-file diagnostics and the summary without the parsed files")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func highlightTool() mcp.Tool {
	return mcp.NewTool(
		"highlight",
		mcp.WithDescription("Render code as syntax-highlighted HTML. Supports // [!code highlight|focus|++|--] line notations."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Code to render")),
		mcp.WithString("lang",
			mcp.Description("Language name (default: svelte)")),
		mcp.WithString("theme",
			mcp.Description("Theme name (default: serendipity)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}
