package refine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"recut/internal/alignment"
	"recut/internal/captions"
	"recut/internal/logging"
	"recut/internal/metrics"
	"recut/internal/services"
	"recut/internal/textutil"
	"recut/internal/timeline"
	"recut/internal/transcript"
)

// maxLoggedMisses bounds the dropped tokens listed in one debug line.
const maxLoggedMisses = 20

// ErrNoClips reports a pass whose edit kept nothing from the source.
var ErrNoClips = errors.New("no clips generated")

// Result is everything one pass produces.
type Result struct {
	PassID         string                    `json:"passId"`
	Mode           string                    `json:"mode"`
	Text           string                    `json:"text,omitempty"`
	Words          []transcript.Word         `json:"words"`
	Ranges         []transcript.TimeRange    `json:"ranges"`
	Mappings       []transcript.RangeMapping `json:"mappings"`
	Captions       []transcript.CaptionCue   `json:"captions"`
	Misses         []alignment.Miss          `json:"misses,omitempty"`
	NearMatches    int                       `json:"nearMatches,omitempty"`
	Prepended      int                       `json:"prepended,omitempty"`
	Extension      alignment.Outcome         `json:"extension,omitempty"`
	DroppedRanges  int                       `json:"droppedRanges,omitempty"`
	Coverage       float64                   `json:"coverage"`
	OutputDuration float64                   `json:"outputDuration"`
}

// Refiner runs passes with fixed options.
type Refiner struct {
	opts      Options
	aligner   alignment.Aligner
	extender  *alignment.Extender
	segmenter captions.Segmenter
	retimer   timeline.Retimer
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

// New builds a Refiner. A nil logger discards output and a nil recorder
// skips metrics.
func New(opts Options, logger *slog.Logger, recorder *metrics.Recorder) *Refiner {
	if logger == nil {
		logger = logging.NewNop()
	}
	var alignOpts []alignment.AlignerOption
	if opts.NearMiss {
		alignOpts = append(alignOpts, alignment.WithNearMiss(opts.NearMissMinLength))
	}
	return &Refiner{
		opts:    opts,
		aligner: alignment.NewAligner(alignOpts...),
		extender: alignment.NewExtender(opts.Lexicon,
			alignment.WithMatchTolerance(opts.MatchTolerance),
			alignment.WithMaxGap(opts.MaxGap),
		),
		segmenter: captions.NewSegmenter(opts.Captions),
		retimer:   opts.retimer(),
		logger:    logging.NewComponentLogger(logger, "refine"),
		metrics:   recorder,
	}
}

// Run executes one pass of edit against source. When the edit keeps nothing
// the partial result is returned with an error wrapping ErrNoClips.
func (r *Refiner) Run(ctx context.Context, source []transcript.Word, edit Edit) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	started := time.Now()
	result := Result{PassID: uuid.NewString(), Mode: edit.Mode(), Text: edit.Text()}
	ctx = services.WithPassID(ctx, result.PassID)
	logger := logging.WithContext(ctx, r.logger)

	if len(source) == 0 {
		r.metrics.RecordPass(result.Mode, metrics.OutcomeFailed, time.Since(started).Seconds())
		return result, services.Wrap(services.ErrValidation, "refine", "run", "Source transcript is empty", nil)
	}
	if edit.Empty() {
		r.metrics.RecordPass(result.Mode, metrics.OutcomeFailed, time.Since(started).Seconds())
		return result, services.Wrap(services.ErrValidation, "refine", "run", "Edit is empty", nil)
	}

	if result.Mode == ModeWords {
		result.Words = append([]transcript.Word(nil), edit.TrimmedWords...)
	} else {
		r.alignText(logger, source, edit.TrimmedText, &result)
	}

	keep := timeline.BuildKeepRanges(source, result.Words, timeline.KeepOptions{
		MinDuration:   r.opts.MinRange,
		TotalDuration: r.opts.TotalDuration,
	})
	result.Ranges = keep.Ranges
	result.DroppedRanges = keep.Dropped
	if keep.Unmatched > 0 {
		logger.Debug("kept words missing from source",
			logging.Int("unmatched", keep.Unmatched),
		)
	}
	if r.opts.SplitSpeakers {
		result.Ranges = timeline.SplitBySpeaker(result.Ranges, source, r.opts.SplitEpsilon)
	}

	result.Mappings = timeline.Compress(result.Ranges)
	result.OutputDuration = timeline.OutputDuration(result.Mappings)
	result.Captions = r.segmenter.Segment(r.retimer.Retime(result.Words, result.Mappings))
	result.Coverage = textutil.Coverage(result.Text, transcript.PlainText(result.Words))

	r.metrics.RecordDroppedRanges(result.DroppedRanges)
	r.metrics.RecordCues(len(result.Captions))
	r.metrics.RecordCoverage(result.Coverage)

	if len(result.Ranges) == 0 {
		r.metrics.RecordPass(result.Mode, metrics.OutcomeNoClips, time.Since(started).Seconds())
		logging.WarnWithContext(logger, "refinement produced no clips", "no_clips",
			logging.Int("aligned_words", len(result.Words)),
			logging.Int("misses", len(result.Misses)),
			logging.String(logging.FieldErrorHint, "check that the edit quotes the source transcript"),
			logging.String(logging.FieldImpact, "nothing to render for this edit"),
		)
		return result, services.Wrap(services.ErrValidation, "refine", "run", "Edit matched no source material", ErrNoClips)
	}

	r.metrics.RecordPass(result.Mode, metrics.OutcomeOK, time.Since(started).Seconds())
	logger.Info("refinement pass complete",
		logging.String("mode", result.Mode),
		logging.Int("words", len(result.Words)),
		logging.Int("ranges", len(result.Ranges)),
		logging.Int("cues", len(result.Captions)),
		logging.Seconds("output_seconds", result.OutputDuration),
		logging.Float64("coverage", result.Coverage),
	)
	return result, nil
}

func (r *Refiner) alignText(logger *slog.Logger, source []transcript.Word, text string, result *Result) {
	aligned := r.aligner.AlignText(source, text)
	result.Words = aligned.Words
	result.Misses = aligned.Misses
	result.NearMatches = aligned.NearMatches
	r.metrics.RecordAlignment(len(aligned.Misses), aligned.NearMatches)
	if len(aligned.Misses) > 0 {
		tokens := make([]string, 0, len(aligned.Misses))
		for _, m := range aligned.Misses {
			tokens = append(tokens, m.Token)
		}
		logger.Debug("edit tokens dropped during alignment",
			logging.Int("count", len(aligned.Misses)),
			logging.Strings("tokens", tokens, maxLoggedMisses),
		)
	}

	if !r.opts.ExtendSentences {
		return
	}
	extended := r.extender.Extend(source, result.Words, text)
	result.Words = extended.Words
	result.Prepended = extended.Prepended
	result.Extension = extended.Outcome
	r.metrics.RecordExtension(extended.Prepended)
	logger.Debug("sentence boundary decision",
		logging.Args(append(logging.DecisionAttrs("sentence_extension", string(extended.Outcome), string(extended.Signal)),
			logging.Int("prepended", extended.Prepended))...)...,
	)
}
