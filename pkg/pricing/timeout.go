package pricing

import (
	"context"
	"fmt"
	"time"
)

// evalResult passes an evaluation result through a channel.
type evalResult struct {
	value float64
	err   error
}

// waitWithTimeout waits for a result from ch, but gives up when the timeout
// elapses or ctx is done. The evaluating goroutine may still be running
// then; its result lands in the buffered channel and is dropped.
func waitWithTimeout(ctx context.Context, ch <-chan evalResult, timeout time.Duration) (float64, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.value, res.err
	case <-timer.C:
		return 0, fmt.Errorf("pricing: evaluation timed out after %s", timeout)
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
