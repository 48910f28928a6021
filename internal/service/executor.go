package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// metricTask is one member of the metric query set: a name for observability
// and a closure that runs the query and writes into its own destination.
// Destinations are disjoint, so the fan-out needs no locking.
type metricTask struct {
	name string
	run  func(ctx context.Context) error
}

// runMetrics fans the tasks out concurrently and joins on all of them. A
// failing task leaves its destination at the zero value and logs a warning;
// it never aborts the batch. The caller checks ctx.Err() after the join:
// when the surrounding request was cancelled the partial results are
// discarded, not returned.
func runMetrics(ctx context.Context, log zerolog.Logger, tasks []metricTask) {
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(t metricTask) {
			defer wg.Done()
			if err := t.run(ctx); err != nil {
				log.Warn().Err(err).Str("metric", t.name).Msg("metric query failed, substituting zero value")
			}
		}(task)
	}
	wg.Wait()
}
