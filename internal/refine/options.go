package refine

import (
	"recut/internal/alignment"
	"recut/internal/captions"
	"recut/internal/config"
	"recut/internal/timeline"
)

// Options tunes every stage of a pass.
type Options struct {
	NearMiss          bool
	NearMissMinLength int
	MatchTolerance    float64
	MaxGap            float64
	ExtendSentences   bool
	Lexicon           alignment.Lexicon

	MinRange      float64
	SplitSpeakers bool
	SplitEpsilon  float64

	RetimeTolerance float64
	MinWord         float64

	Captions captions.Options

	// TotalDuration bounds keep ranges; zero uses the last source word end.
	TotalDuration float64
}

// DefaultOptions returns the built-in tuning.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(&cfg)
}

// OptionsFromConfig translates configuration into pass options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		NearMiss:          cfg.Alignment.NearMiss,
		NearMissMinLength: cfg.Alignment.NearMissMinLength,
		MatchTolerance:    cfg.Alignment.MatchToleranceSeconds,
		MaxGap:            cfg.Alignment.MaxGapSeconds,
		ExtendSentences:   cfg.Alignment.ExtendSentences,
		Lexicon: alignment.Lexicon{
			Conjunctions:        cfg.Lexicon.Conjunctions,
			MidSentenceStarters: cfg.Lexicon.MidSentenceStarters,
			QuestionWords:       cfg.Lexicon.QuestionWords,
			PronounVerbs:        cfg.Lexicon.PronounVerbs,
			TerminalPunctuation: cfg.Lexicon.TerminalPunctuation,
		},
		MinRange:        cfg.Timeline.MinRangeSeconds,
		SplitSpeakers:   cfg.Timeline.SplitSpeakers,
		SplitEpsilon:    cfg.Timeline.SplitEpsilonSeconds,
		RetimeTolerance: cfg.Timeline.RetimeToleranceSeconds,
		MinWord:         cfg.Timeline.MinWordSeconds,
		Captions: captions.Options{
			MaxWords:       cfg.Captions.MaxWords,
			MaxChars:       cfg.Captions.MaxChars,
			MaxDuration:    cfg.Captions.MaxDurationSeconds,
			SentenceGap:    cfg.Captions.SentenceGapSeconds,
			SoftPause:      cfg.Captions.SoftPauseSeconds,
			TerminalMarks:  cfg.Lexicon.TerminalPunctuation,
			SoftBreakMarks: cfg.Lexicon.SoftBreakChars,
		},
	}
}

func (o Options) retimer() timeline.Retimer {
	r := timeline.NewRetimer()
	if o.RetimeTolerance > 0 {
		r.Tolerance = o.RetimeTolerance
	}
	if o.MinWord > 0 {
		r.MinWordDuration = o.MinWord
	}
	return r
}
