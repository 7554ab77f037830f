package projection

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/signalsfoundry/polynet/model"
)

// ErrBatchAborted marks elements skipped after a fail-fast batch hit an
// error.
var ErrBatchAborted = errors.New("batch aborted")

// BatchOptions controls Forward and Inverse.
type BatchOptions struct {
	// Workers is the number of goroutines; values below 2 run sequentially.
	Workers int
	// FailFast stops handing out elements after the first error.
	FailFast bool
}

type ForwardResult struct {
	Point model.PlanarPoint
	Err   error
}

type InverseResult struct {
	Position model.GeoPosition
	Err      error
}

// Forward projects positions. Each result carries its own error. With
// FailFast the error of the lowest failing index is also returned and every
// later element carries ErrBatchAborted, so results do not depend on the
// worker count.
func (p *Projector) Forward(positions []model.GeoPosition, opts BatchOptions) ([]ForwardResult, error) {
	results := make([]ForwardResult, len(positions))
	failed, err := run(len(positions), opts, func(i int) error {
		pt, err := p.ForwardPoint(positions[i])
		results[i] = ForwardResult{Point: pt, Err: err}
		return err
	})
	for i := failed + 1; failed >= 0 && i < len(results); i++ {
		results[i] = ForwardResult{Point: model.PlanarPoint{Face: model.NoFace}, Err: ErrBatchAborted}
	}
	return results, err
}

// Inverse maps points back to positions with the same contract as Forward.
func (p *Projector) Inverse(points []model.PlanarPoint, opts BatchOptions) ([]InverseResult, error) {
	results := make([]InverseResult, len(points))
	failed, err := run(len(points), opts, func(i int) error {
		pos, err := p.InversePoint(points[i])
		results[i] = InverseResult{Position: pos, Err: err}
		return err
	})
	for i := failed + 1; failed >= 0 && i < len(results); i++ {
		results[i] = InverseResult{Err: ErrBatchAborted}
	}
	return results, err
}

// run calls do for every index in [0, n) and, with FailFast, returns the
// lowest failing index (or -1) and its wrapped error. Indices are claimed
// in increasing order, so once a worker fails every lower index has
// already been claimed and will finish.
func run(n int, opts BatchOptions, do func(i int) error) (int, error) {
	workers := opts.Workers
	if workers > n {
		workers = n
	}

	if workers < 2 {
		for i := 0; i < n; i++ {
			if err := do(i); err != nil && opts.FailFast {
				return i, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return -1, nil
	}

	errs := make([]error, n)
	var (
		next atomic.Int64
		stop atomic.Bool
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !(opts.FailFast && stop.Load()) {
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				if err := do(i); err != nil {
					errs[i] = err
					if opts.FailFast {
						stop.Store(true)
					}
				}
			}
		}()
	}
	wg.Wait()

	if opts.FailFast {
		for i, err := range errs {
			if err != nil {
				return i, fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return -1, nil
}
