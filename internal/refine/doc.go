// Package refine runs one refinement pass: an edit from the generative edit
// service is mapped back onto the source transcript, turned into keep ranges,
// compressed onto the output timeline, and captioned.
//
// A Refiner is safe for concurrent use; every pass works on its own copies
// and shares only the logger and metrics recorder. RunBatch fans passes out
// over a bounded errgroup.
package refine
