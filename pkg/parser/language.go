package parser

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/gnana997/extractinator/pkg/ir"
)

// Language is a script grammar understood by the parser.
type Language int

const (
	// LanguageTypeScript covers .ts, .mts, .cts and .tsx (with isTSX)
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js, .mjs, .cjs and .jsx
	LanguageJavaScript
	// LanguageUnknown is any other input
	LanguageUnknown
)

func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// fileType is what an extension says about a file.
type fileType struct {
	kind  ir.FileKind
	lang  Language
	isTSX bool
}

// Classification is by extension only; contents are never sniffed.
var fileTypes = map[string]fileType{
	".ts":     {ir.KindModule, LanguageTypeScript, false},
	".mts":    {ir.KindModule, LanguageTypeScript, false},
	".cts":    {ir.KindModule, LanguageTypeScript, false},
	".tsx":    {ir.KindModule, LanguageTypeScript, true},
	".js":     {ir.KindModule, LanguageJavaScript, false},
	".mjs":    {ir.KindModule, LanguageJavaScript, false},
	".cjs":    {ir.KindModule, LanguageJavaScript, false},
	".jsx":    {ir.KindModule, LanguageJavaScript, false},
	".svelte": {ir.KindComponent, LanguageUnknown, false},
}

func lookup(filePath string) (fileType, bool) {
	ft, ok := fileTypes[strings.ToLower(filepath.Ext(filePath))]
	return ft, ok
}

// DetectLanguage returns the grammar of a module file. Components and
// unknown extensions give LanguageUnknown; a component's scripts declare
// their own language (see ScriptLanguage).
func DetectLanguage(filePath string) Language {
	ft, ok := lookup(filePath)
	if !ok {
		return LanguageUnknown
	}
	return ft.lang
}

// IsTSXFile reports whether the path needs the TSX variant of the
// TypeScript grammar.
func IsTSXFile(filePath string) bool {
	ft, _ := lookup(filePath)
	return ft.isTSX
}

// IsComponentFile reports whether the path is a Svelte component.
func IsComponentFile(filePath string) bool {
	ft, ok := lookup(filePath)
	return ok && ft.kind == ir.KindComponent
}

// ClassifyFile maps a path to the kind of file it produces. ok is false
// for unsupported extensions.
func ClassifyFile(filePath string) (kind ir.FileKind, ok bool) {
	ft, ok := lookup(filePath)
	return ft.kind, ok
}

// ScriptLanguage maps the lang attribute of a component <script> to a
// grammar. Anything other than TypeScript is parsed as JavaScript.
func ScriptLanguage(langAttr string) Language {
	if ParseLanguageString(langAttr) == LanguageTypeScript {
		return LanguageTypeScript
	}
	return LanguageJavaScript
}

// ParseLanguageString converts a language name to a Language.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "typescript", "ts":
		return LanguageTypeScript
	case "javascript", "js":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// SupportedExtensions lists, sorted, every extension ClassifyFile accepts.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(fileTypes))
	for ext := range fileTypes {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
