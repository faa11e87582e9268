package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// serverName is the key of the extractinator entry in agent MCP configs.
const serverName = "extractinator"

// agentMethod says how an agent is configured.
type agentMethod string

const (
	methodCLI  agentMethod = "cli"  // `<binary> mcp add`
	methodFile agentMethod = "file" // JSON config file
)

// agentDef defines how to detect and configure one coding agent.
type agentDef struct {
	id          string
	displayName string
	method      agentMethod
	binary      string            // methodCLI: binary name on PATH
	dirMarkers  []string          // methodFile: dirs that indicate presence
	configPath  func() string     // methodFile: resolved config file path
	serversKey  string            // "servers" (VS Code) or "mcpServers"
	needsScope  bool              // prompt for project/user scope
	extraFields map[string]string // e.g. "type": "stdio" for VS Code
}

// detectedAgent is an agent found on the system.
type detectedAgent struct {
	def          agentDef
	configured   bool
	resolvedPath string
}

type setupOptions struct {
	auto    bool
	toolLog string
}

// Replaceable for testing.
var lookPathFunc = exec.LookPath
var statFunc = os.Stat

var agentRegistry = []agentDef{
	{id: "claude_code", displayName: "Claude Code", method: methodCLI, binary: "claude", needsScope: true},
	{id: "openai_codex", displayName: "OpenAI Codex", method: methodCLI, binary: "codex", needsScope: true},
	{
		id: "vscode_copilot", displayName: "VS Code Copilot", method: methodFile,
		dirMarkers:  []string{".vscode"},
		configPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		serversKey:  "servers",
		extraFields: map[string]string{"type": "stdio"},
	},
	{
		id: "cursor", displayName: "Cursor", method: methodFile,
		dirMarkers: []string{".cursor"},
		configPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		serversKey: "mcpServers",
	},
	{
		id: "claude_desktop", displayName: "Claude Desktop", method: methodFile,
		configPath: claudeDesktopConfigPath,
		serversKey: "mcpServers",
	},
}

func newSetupCmd(a *app) *cobra.Command {
	var opts setupOptions
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the extractinator MCP server with installed coding agents",
		Run: func(cmd *cobra.Command, args []string) {
			executeSetup(a.stdin, a.stdout, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "configure every detected agent without prompting")
	cmd.Flags().StringVar(&opts.toolLog, "tool-log", "", "tool-call log file passed to serve")
	return cmd
}

func claudeDesktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detect reports whether the agent is present and where its config lives.
func (def agentDef) detect() (detectedAgent, bool) {
	d := detectedAgent{def: def}
	switch def.method {
	case methodCLI:
		if _, err := lookPathFunc(def.binary); err != nil {
			return d, false
		}
		d.configured = hasServerEntry(".mcp.json", "mcpServers")
		return d, true

	case methodFile:
		found := false
		for _, marker := range def.dirMarkers {
			if _, err := statFunc(marker); err == nil {
				found = true
				break
			}
		}
		// Agents without project markers are found by their config dir.
		if !found && len(def.dirMarkers) == 0 && def.configPath != nil {
			if _, err := statFunc(filepath.Dir(def.configPath())); err == nil {
				found = true
			}
		}
		if !found {
			return d, false
		}
		if def.configPath != nil {
			d.resolvedPath = def.configPath()
			d.configured = hasServerEntry(d.resolvedPath, def.serversKey)
		}
		return d, true
	}
	return d, false
}

func detectAgents() []detectedAgent {
	var detected []detectedAgent
	for _, def := range agentRegistry {
		if d, ok := def.detect(); ok {
			detected = append(detected, d)
		}
	}
	return detected
}

// hasServerEntry reports whether the JSON file at path lists serverName
// under serversKey.
func hasServerEntry(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers[serverName]
	return exists
}

// serveArgs returns the command line an agent runs to start the server.
func serveArgs(opts setupOptions) []string {
	args := []string{"serve"}
	if opts.toolLog != "" {
		args = append(args, "--tool-log", opts.toolLog)
	}
	return args
}

func serverEntry(opts setupOptions, extra map[string]string) map[string]any {
	args := serveArgs(opts)
	anyArgs := make([]any, len(args))
	for i, a := range args {
		anyArgs[i] = a
	}
	entry := map[string]any{
		"command": serverName,
		"args":    anyArgs,
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds the extractinator entry under serversKey of the
// existing JSON (or a new document) and returns the merged bytes.
// Returns nil, nil if the entry already exists.
func mergeServerEntry(existing []byte, serversKey string, entry map[string]any) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}
	servers[serverName] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func configureCLIAgent(def agentDef, scope string, opts setupOptions) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverName, "--", serverName)
	args = append(args, serveArgs(opts)...)
	cmd := exec.Command(def.binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func configureFileAgent(def agentDef, configPath string, opts setupOptions) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var existing []byte
	if data, err := os.ReadFile(configPath); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, def.serversKey, serverEntry(opts, def.extraFields))
	if err != nil {
		return err
	}
	if merged == nil {
		return nil
	}
	return os.WriteFile(configPath, merged, 0644)
}

// promptYesNo prints a question and reads Y/n. Empty input and EOF mean yes.
func promptYesNo(s *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	if !s.Scan() {
		return true
	}
	answer := strings.TrimSpace(strings.ToLower(s.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// promptScope returns "project", "user", or "" to skip.
func promptScope(s *bufio.Scanner, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: add the %s MCP server?\n", agentName, serverName)
	fmt.Fprintln(w, "  [1] Project scope (shared with team)")
	fmt.Fprintln(w, "  [2] User scope (personal, global)")
	fmt.Fprintln(w, "  [3] Skip")
	fmt.Fprintf(w, "  > ")

	if !s.Scan() {
		return "project"
	}
	switch strings.TrimSpace(s.Text()) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// executeSetup detects agents and configures them, reading answers from r.
func executeSetup(r io.Reader, w io.Writer, opts setupOptions) {
	detected := detectAgents()
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported coding agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected coding agents:")
	for _, d := range detected {
		if d.configured {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.def.displayName)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.def.displayName)
		}
	}
	fmt.Fprintln(w)

	// One scanner for the whole session so buffered answers are not lost.
	answers := bufio.NewScanner(r)
	if !opts.auto && !promptYesNo(answers, w, "Configure agents? [Y/n]") {
		return
	}

	for _, d := range detected {
		if d.configured {
			fmt.Fprintf(w, "\n%s: already configured, skipping\n", d.def.displayName)
			continue
		}
		configureOneAgent(answers, w, d, opts)
	}
}

func configureOneAgent(answers *bufio.Scanner, w io.Writer, d detectedAgent, opts setupOptions) {
	switch d.def.method {
	case methodCLI:
		scope := "project"
		if !opts.auto && d.def.needsScope {
			if scope = promptScope(answers, w, d.def.displayName); scope == "" {
				fmt.Fprintln(w, "  skipped")
				return
			}
		}
		if err := configureCLIAgent(d.def, scope, opts); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.def.displayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.def.displayName, scope)

	case methodFile:
		if !opts.auto && !promptYesNo(answers, w, fmt.Sprintf("\n%s: add to %s? [Y/n]", d.def.displayName, d.resolvedPath)) {
			fmt.Fprintln(w, "  skipped")
			return
		}
		if err := configureFileAgent(d.def, d.resolvedPath, opts); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.def.displayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.def.displayName, d.resolvedPath)
	}
}
