package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateSnippets(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return errors.New("logging rotation limits must be >= 0")
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if c.Alignment.MatchToleranceSeconds <= 0 {
		return errors.New("alignment.match_tolerance_seconds must be positive")
	}
	if c.Alignment.MaxGapSeconds <= 0 {
		return errors.New("alignment.max_gap_seconds must be positive")
	}
	if c.Alignment.NearMiss && c.Alignment.NearMissMinLength < 2 {
		return errors.New("alignment.near_miss_min_length must be >= 2 when near_miss is enabled")
	}
	return nil
}

func (c *Config) validateTimeline() error {
	if c.Timeline.MinRangeSeconds < 0 {
		return errors.New("timeline.min_range_seconds must be >= 0")
	}
	if c.Timeline.SplitEpsilonSeconds < 0 {
		return errors.New("timeline.split_epsilon_seconds must be >= 0")
	}
	if c.Timeline.RetimeToleranceSeconds < 0 {
		return errors.New("timeline.retime_tolerance_seconds must be >= 0")
	}
	if c.Timeline.MinWordSeconds <= 0 {
		return errors.New("timeline.min_word_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if c.Captions.MaxWords < 1 {
		return errors.New("captions.max_words must be >= 1")
	}
	if c.Captions.MaxChars < 1 {
		return errors.New("captions.max_chars must be >= 1")
	}
	if c.Captions.MaxDurationSeconds <= 0 {
		return errors.New("captions.max_duration_seconds must be positive")
	}
	if c.Captions.SentenceGapSeconds <= 0 || c.Captions.SoftPauseSeconds <= 0 {
		return errors.New("captions gap thresholds must be positive")
	}
	switch c.Captions.Format {
	case "srt", "vtt":
	default:
		return fmt.Errorf("captions.format: unsupported value %q (want srt or vtt)", c.Captions.Format)
	}
	return nil
}

func (c *Config) validateSnippets() error {
	if c.Snippets.MinDurationSeconds <= 0 {
		return errors.New("snippets.min_duration_seconds must be positive")
	}
	if c.Snippets.MaxGapSeconds <= 0 {
		return errors.New("snippets.max_gap_seconds must be positive")
	}
	return nil
}
