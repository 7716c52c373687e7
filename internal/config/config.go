package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir  string `toml:"cache_dir"`
	LogDir    string `toml:"log_dir"`
	ExportDir string `toml:"export_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       bool   `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Alignment contains configuration for mapping edited text back onto the
// source transcript.
type Alignment struct {
	// NearMiss accepts a source word one edit away from a target token when
	// no exact match remains. Off by default: unmatched tokens are dropped.
	NearMiss              bool    `toml:"near_miss"`
	NearMissMinLength     int     `toml:"near_miss_min_length"`
	MatchToleranceSeconds float64 `toml:"match_tolerance_seconds"`
	MaxGapSeconds         float64 `toml:"max_gap_seconds"`
	ExtendSentences       bool    `toml:"extend_sentences"`
}

// Lexicon holds the heuristic word lists used for sentence-boundary repair.
// Empty lists fall back to the built-in English lists.
type Lexicon struct {
	Conjunctions        []string `toml:"conjunctions"`
	MidSentenceStarters []string `toml:"mid_sentence_starters"`
	QuestionWords       []string `toml:"question_words"`
	PronounVerbs        []string `toml:"pronoun_verbs"`
	TerminalPunctuation string   `toml:"terminal_punctuation"`
	SoftBreakChars      string   `toml:"soft_break_chars"`
}

// Timeline contains configuration for keep-range construction and retiming.
type Timeline struct {
	MinRangeSeconds        float64 `toml:"min_range_seconds"`
	SplitEpsilonSeconds    float64 `toml:"split_epsilon_seconds"`
	RetimeToleranceSeconds float64 `toml:"retime_tolerance_seconds"`
	MinWordSeconds         float64 `toml:"min_word_seconds"`
	SplitSpeakers          bool    `toml:"split_speakers"`
}

// Captions contains caption legibility limits.
type Captions struct {
	MaxWords           int     `toml:"max_words"`
	MaxChars           int     `toml:"max_chars"`
	MaxDurationSeconds float64 `toml:"max_duration_seconds"`
	SentenceGapSeconds float64 `toml:"sentence_gap_seconds"`
	SoftPauseSeconds   float64 `toml:"soft_pause_seconds"`
	Format             string  `toml:"format"`
}

// Snippets contains speaker snippet sizing.
type Snippets struct {
	MinDurationSeconds float64 `toml:"min_duration_seconds"`
	MaxGapSeconds      float64 `toml:"max_gap_seconds"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for recut.
//
// Configuration sections by subsystem:
//   - Paths: cache, export, and log directories
//   - Logging: log format, level, and rotation
//   - Alignment: edited-text matching and sentence repair tolerances
//   - Lexicon: heuristic word lists (locale data)
//   - Timeline: keep-range filtering and retiming tolerances
//   - Captions: cue legibility limits and output format
//   - Snippets: speaker identification windows
//   - Metrics: optional Prometheus textfile output
type Config struct {
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Alignment Alignment `toml:"alignment"`
	Lexicon   Lexicon   `toml:"lexicon"`
	Timeline  Timeline  `toml:"timeline"`
	Captions  Captions  `toml:"captions"`
	Snippets  Snippets  `toml:"snippets"`
	Metrics   Metrics   `toml:"metrics"`
}

// EnvConfigPath names the environment variable that overrides config lookup
// when no explicit path is given.
const EnvConfigPath = "RECUT_CONFIG"

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the config at path, or the first existing candidate from
// $RECUT_CONFIG, the per-user file and ./recut.toml when path is empty. A
// missing file yields defaults. It returns the config, the path it resolved
// to and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		raw, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config %s: %w", resolved, err)
		}
		dec := toml.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// locate picks the config file to read. An explicit path is returned even
// when absent so callers can report where defaults came from.
func locate(path string) (string, bool, error) {
	if path = strings.TrimSpace(path); path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		ok, err := isFile(expanded)
		return expanded, ok, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := expandPath("recut.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		ok, err := isFile(candidate)
		if err != nil {
			return "", false, err
		}
		if ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	return true, nil
}

// EnsureDirectories creates the cache and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CacheDBPath returns the pass cache database location.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Paths.CacheDir, "passes.db")
}

// LogFilePath returns the rotating log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "recut.log")
}

// ExpandPath resolves a leading ~ to the home directory and makes the
// result absolute. Empty input stays empty.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, p[1:])
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", p, err)
	}
	return abs, nil
}

// CreateSample writes the annotated sample config to path, creating parent
// directories.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
