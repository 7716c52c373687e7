package refine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"recut/internal/transcript"
)

// BatchItem pairs one edit's result with its error.
type BatchItem struct {
	Result Result
	Err    error
}

// RunBatch runs every edit against the same source with at most jobs passes
// in flight. Per-edit failures are reported in the items; only context
// cancellation aborts the batch.
func (r *Refiner) RunBatch(ctx context.Context, source []transcript.Word, edits []Edit, jobs int) ([]BatchItem, error) {
	if jobs <= 0 {
		jobs = 1
	}
	items := make([]BatchItem, len(edits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, edit := range edits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := r.Run(gctx, source, edit)
			items[i] = BatchItem{Result: result, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}
