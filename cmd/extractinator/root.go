package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/parser"
	"github.com/gnana997/extractinator/pkg/parser/queries"
	"github.com/gnana997/extractinator/pkg/util"
)

// errAllFailed is returned by extract when no input file could be
// extracted. Its details are already on stderr.
var errAllFailed = errors.New("no file could be extracted")

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath string
	flags      flagValues

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp() *app {
	return &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

// configFlags lists every flag that takes part in the config fallback chain.
var configFlags = []string{
	"include", "exclude", "workers", "default-slot", "max-comment-gap",
	"allow-partial", "cache-size", "theme", "lang", "log-level", "log-format",
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "extractinator",
		Short: "Extract documentation from TypeScript modules and Svelte components",
		Long: `extractinator turns .ts/.js modules and .svelte components into a
documentation IR: exports, props, events and slots with their types and
parsed TSDoc comments, as JSON.

Settings are read from --flags, then .extractinator.yaml, then defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.flags.changed = make(map[string]bool)
			for _, name := range configFlags {
				if cmd.Flags().Changed(name) {
					a.flags.changed[name] = true
				}
			}
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default is ./"+defaultConfigPath+")")
	pf.StringVar(&a.flags.logLevel, "log-level", string(util.LevelInfo), "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", string(util.FormatText), "log format: text, json")

	root.AddCommand(
		newExtractCmd(a),
		newServeCmd(a),
		newHighlightCmd(a),
		newInspectCmd(a),
		newSetupCmd(a),
		newVersionCmd(a),
	)
	return root
}

// addExtractFlags registers the flags that shape extraction.
func (a *app) addExtractFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&a.flags.include, "include", nil, "doublestar patterns of files to extract, relative to each directory")
	f.StringSliceVar(&a.flags.exclude, "exclude", nil, "doublestar patterns of files to skip")
	f.IntVarP(&a.flags.workers, "workers", "j", 0, "number of parallel workers (0 = auto)")
	f.StringVar(&a.flags.defaultSlot, "default-slot", string(extractor.SlotWhenRendered), "default slot policy: when-rendered, always")
	f.IntVar(&a.flags.maxCommentGap, "max-comment-gap", 1, "blank lines allowed between a doc comment and its declaration")
	f.BoolVar(&a.flags.allowPartial, "allow-partial", false, "extract files with syntax errors instead of failing them")
}

// settings loads the project config and resolves the effective settings.
func (a *app) settings() (settings, error) {
	cfg, err := loadProjectConfig(a.configPath)
	if err != nil {
		return settings{}, err
	}
	s, err := resolveSettings(cfg, a.flags)
	if err != nil {
		return settings{}, err
	}
	s.Logger.Output = a.stderr
	return s, nil
}

func (a *app) logger(s settings) *slog.Logger {
	logger := util.NewLogger(s.Logger)
	util.SetDefault(logger)
	return logger
}

// newExtractor builds an Extractor and returns the func releasing its
// parsers and queries.
func newExtractor(s settings, logger *slog.Logger) (*extractor.Extractor, func()) {
	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(pm, logger)
	x := extractor.NewExtractor(pm, qm, s.Extract, logger)
	return x, func() {
		qm.Close()
		pm.Close()
	}
}
