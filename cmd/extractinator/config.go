package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/extractinator/pkg/batch"
	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/highlight"
	"github.com/gnana997/extractinator/pkg/util"
)

// defaultConfigPath is looked up in the working directory when --config
// is not given.
const defaultConfigPath = ".extractinator.yaml"

// ProjectConfig holds the contents of .extractinator.yaml.
type ProjectConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	Workers int      `yaml:"workers"`

	DefaultSlot   string `yaml:"default_slot"`
	MaxCommentGap *int   `yaml:"max_comment_gap"`
	AllowPartial  bool   `yaml:"allow_partial"`

	CacheSize int `yaml:"cache_size"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Highlight highlight.Options `yaml:"highlight"`
}

// loadProjectConfig reads the project config. An empty path means the
// default file, which may be absent (nil, nil). An explicit path must
// exist.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// settings is the effective configuration of one command run after applying
// the fallback chain:
//  1. Explicit command-line flag
//  2. Value from .extractinator.yaml
//  3. Built-in default
type settings struct {
	Discover  batch.DiscoverConfig
	Workers   int
	Extract   extractor.Options
	CacheSize int
	Highlight highlight.Options
	Logger    util.LoggerConfig
}

// flagValues carries the flags a command was given. The changed set
// names the flags set explicitly on the command line.
type flagValues struct {
	changed map[string]bool

	include       []string
	exclude       []string
	workers       int
	defaultSlot   string
	maxCommentGap int
	allowPartial  bool
	cacheSize     int
	theme         string
	lang          string
	logLevel      string
	logFormat     string
}

func (f flagValues) set(name string) bool {
	return f.changed[name]
}

// resolveSettings applies the fallback chain. cfg may be nil.
func resolveSettings(cfg *ProjectConfig, flags flagValues) (settings, error) {
	if cfg == nil {
		cfg = &ProjectConfig{}
	}

	s := settings{
		Discover: batch.DefaultDiscoverConfig(),
		Extract:  extractor.DefaultOptions(),
		Logger:   util.DefaultLoggerConfig(),
	}

	switch {
	case flags.set("include"):
		s.Discover.Include = flags.include
	case len(cfg.Include) > 0:
		s.Discover.Include = cfg.Include
	}
	switch {
	case flags.set("exclude"):
		s.Discover.Exclude = flags.exclude
	case len(cfg.Exclude) > 0:
		s.Discover.Exclude = cfg.Exclude
	}

	s.Workers = cfg.Workers
	if flags.set("workers") {
		s.Workers = flags.workers
	}

	slot := cfg.DefaultSlot
	if flags.set("default-slot") {
		slot = flags.defaultSlot
	}
	policy, err := extractor.ParseDefaultSlotPolicy(slot)
	if err != nil {
		return settings{}, err
	}
	s.Extract.SynthesizeDefaultSlot = policy

	if cfg.MaxCommentGap != nil {
		s.Extract.MaxCommentGap = *cfg.MaxCommentGap
	}
	if flags.set("max-comment-gap") {
		s.Extract.MaxCommentGap = flags.maxCommentGap
	}
	if s.Extract.MaxCommentGap < 0 {
		return settings{}, fmt.Errorf("max comment gap must not be negative, got %d", s.Extract.MaxCommentGap)
	}

	s.Extract.AllowPartialTrees = cfg.AllowPartial
	if flags.set("allow-partial") {
		s.Extract.AllowPartialTrees = flags.allowPartial
	}

	s.CacheSize = cfg.CacheSize
	if flags.set("cache-size") {
		s.CacheSize = flags.cacheSize
	}

	s.Highlight = cfg.Highlight
	if flags.set("theme") {
		s.Highlight.Theme = flags.theme
	}
	if flags.set("lang") {
		s.Highlight.Lang = flags.lang
	}

	level := cfg.LogLevel
	if flags.set("log-level") {
		level = flags.logLevel
	}
	if s.Logger.Level, err = util.ParseLogLevel(level); err != nil {
		return settings{}, err
	}
	format := cfg.LogFormat
	if flags.set("log-format") {
		format = flags.logFormat
	}
	if s.Logger.Format, err = util.ParseLogFormat(format); err != nil {
		return settings{}, err
	}

	return s, nil
}
