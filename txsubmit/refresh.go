package txsubmit

import (
	"context"
	"time"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"go.uber.org/atomic"
)

// DefaultRefreshDelay is how long to wait after a confirmed transaction
// before re-reading the registry.
const DefaultRefreshDelay = 2 * time.Second

// RefreshFunc reloads the views affected by a transaction. project is zero
// when no single project view is concerned; the aggregate list is always
// reloaded.
type RefreshFunc func(ctx context.Context, project interfaces.ProjectID)

// Refresh is a scheduled refresh. It runs once after its delay unless it is
// stopped or its context is cancelled first.
type Refresh struct {
	Project interfaces.ProjectID
	Delay   time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	ran    atomic.Bool
}

func schedule(parent context.Context, delay time.Duration, project interfaces.ProjectID, fn RefreshFunc) *Refresh {
	ctx, cancel := context.WithCancel(parent)
	r := &Refresh{
		Project: project,
		Delay:   delay,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		r.ran.Store(true)
		fn(ctx, project)
	}()

	return r
}

// Stop cancels the refresh. A refresh that has not started never runs; one
// that is running sees its context cancelled.
func (r *Refresh) Stop() {
	r.cancel()
}

// Done is closed once the refresh ran or was cancelled.
func (r *Refresh) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the refresh finished or was cancelled and reports whether it ran.
func (r *Refresh) Wait() bool {
	<-r.done
	return r.ran.Load()
}
