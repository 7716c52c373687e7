package config

const (
	defaultConfigPath = "~/.config/recut/config.toml"
	defaultCacheDir   = "~/.cache/recut"
	defaultLogDir     = "~/.local/share/recut/logs"
	defaultExportDir  = "~/.local/share/recut/exports"

	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultLogMaxSizeMB  = 20
	defaultLogMaxBackups = 5
	defaultLogMaxAgeDays = 30

	defaultNearMissMinLength     = 4
	defaultMatchToleranceSeconds = 0.5
	defaultMaxGapSeconds         = 1.5

	defaultMinRangeSeconds        = 0.1
	defaultSplitEpsilonSeconds    = 0.01
	defaultRetimeToleranceSeconds = 0.05
	defaultMinWordSeconds         = 0.05

	defaultCaptionMaxWords        = 8
	defaultCaptionMaxChars        = 48
	defaultCaptionMaxDuration     = 3.2
	defaultCaptionSentenceGap     = 0.6
	defaultCaptionSoftPause       = 0.35
	defaultCaptionFormat          = "srt"
	defaultSnippetMinDuration     = 3.0
	defaultSnippetMaxGapSeconds   = 0.8
	defaultTerminalPunctuation    = ".!?"
	defaultSoftBreakCharacterList = ",;:"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
		Alignment: Alignment{
			NearMissMinLength:     defaultNearMissMinLength,
			MatchToleranceSeconds: defaultMatchToleranceSeconds,
			MaxGapSeconds:         defaultMaxGapSeconds,
			ExtendSentences:       true,
		},
		Lexicon: Lexicon{
			TerminalPunctuation: defaultTerminalPunctuation,
			SoftBreakChars:      defaultSoftBreakCharacterList,
		},
		Timeline: Timeline{
			MinRangeSeconds:        defaultMinRangeSeconds,
			SplitEpsilonSeconds:    defaultSplitEpsilonSeconds,
			RetimeToleranceSeconds: defaultRetimeToleranceSeconds,
			MinWordSeconds:         defaultMinWordSeconds,
		},
		Captions: Captions{
			MaxWords:           defaultCaptionMaxWords,
			MaxChars:           defaultCaptionMaxChars,
			MaxDurationSeconds: defaultCaptionMaxDuration,
			SentenceGapSeconds: defaultCaptionSentenceGap,
			SoftPauseSeconds:   defaultCaptionSoftPause,
			Format:             defaultCaptionFormat,
		},
		Snippets: Snippets{
			MinDurationSeconds: defaultSnippetMinDuration,
			MaxGapSeconds:      defaultSnippetMaxGapSeconds,
		},
	}
}
