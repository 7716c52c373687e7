package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"recut/internal/config"
	"recut/internal/logging"
	"recut/internal/metrics"
	"recut/internal/passcache"
	"recut/internal/services"
	"recut/internal/transcript"
)

type commandContext struct {
	configFlag *string
	outputFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	recorder *metrics.Recorder
}

func newCommandContext(configFlag, outputFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		outputFlag: outputFlag,
		recorder:   metrics.New(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "load config", "Failed to load configuration", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "load config", "Failed to create directories", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "cli", "init logger", "Failed to initialize logging", err)
			return
		}
		c.logger = logger.With(logging.String(logging.FieldComponent, "cli"))
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openCache() (*passcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return passcache.Open(cfg)
}

// flushMetrics writes the metrics textfile when one is configured.
func (c *commandContext) flushMetrics() error {
	if c.config == nil || strings.TrimSpace(c.config.Metrics.Textfile) == "" {
		return nil
	}
	if err := c.recorder.WriteTextfile(c.config.Metrics.Textfile); err != nil {
		return services.Wrap(services.ErrTransient, "cli", "metrics", "Failed to write metrics textfile", err)
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// sourceFile is a loaded source transcript plus the bytes it was read from.
type sourceFile struct {
	path   string
	raw    []byte
	words  []transcript.Word
	format transcript.Format
}

func readSource(path string) (sourceFile, error) {
	raw, err := readInput("transcript", path)
	if err != nil {
		return sourceFile{}, err
	}
	words, format, err := transcript.DecodeWords(raw)
	if err != nil {
		return sourceFile{}, err
	}
	return sourceFile{path: path, raw: raw, words: words, format: format}, nil
}

func readInput(kind, path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "cli", "read "+kind, "Path is empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "cli", "read "+kind, fmt.Sprintf("%s %q not found", kind, path), err)
		}
		return nil, services.Wrap(services.ErrTransient, "cli", "read "+kind, fmt.Sprintf("Failed to read %s", kind), err)
	}
	return data, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
