package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeLexicon()
	c.normalizeCaptions()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if strings.TrimSpace(c.Metrics.Textfile) != "" {
		if c.Metrics.Textfile, err = expandPath(c.Metrics.Textfile); err != nil {
			return fmt.Errorf("metrics.textfile: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeLexicon() {
	c.Lexicon.Conjunctions = normalizeWordList(c.Lexicon.Conjunctions)
	c.Lexicon.MidSentenceStarters = normalizeWordList(c.Lexicon.MidSentenceStarters)
	c.Lexicon.QuestionWords = normalizeWordList(c.Lexicon.QuestionWords)
	c.Lexicon.PronounVerbs = normalizeWordList(c.Lexicon.PronounVerbs)
	if strings.TrimSpace(c.Lexicon.TerminalPunctuation) == "" {
		c.Lexicon.TerminalPunctuation = defaultTerminalPunctuation
	}
	if strings.TrimSpace(c.Lexicon.SoftBreakChars) == "" {
		c.Lexicon.SoftBreakChars = defaultSoftBreakCharacterList
	}
}

func (c *Config) normalizeCaptions() {
	c.Captions.Format = strings.ToLower(strings.TrimSpace(c.Captions.Format))
	if c.Captions.Format == "" {
		c.Captions.Format = defaultCaptionFormat
	}
}

func normalizeWordList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
