package orchestrator

import (
	"sync"

	"github.com/handycomputer/voice-input-launcher/internal/check"
)

// Handle represents one in-flight check execution. It delivers exactly
// one CommandResult when the check completes.
type Handle struct {
	name string
	done chan struct{}
	res  check.CommandResult
}

func newHandle(name string) *Handle {
	return &Handle{name: name, done: make(chan struct{})}
}

// Name returns the check name this handle tracks.
func (h *Handle) Name() string {
	return h.name
}

// Done returns a channel closed when the result is available.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result returns the result and true once the check has completed.
func (h *Handle) Result() (check.CommandResult, bool) {
	select {
	case <-h.done:
		return h.res, true
	default:
		return check.CommandResult{}, false
	}
}

// Wait blocks until the check completes and returns its result.
func (h *Handle) Wait() check.CommandResult {
	<-h.done
	return h.res
}

func (h *Handle) finish(res check.CommandResult) {
	h.res = res
	close(h.done)
}

// SetRun aggregates the results of one concurrent set of checks. Results
// arrive in any order; the session is complete once every scheduled check
// has reported.
type SetRun struct {
	session *check.Session

	mu      sync.Mutex
	handles []*Handle
	pending int
	done    chan struct{}
}

func newSetRun(n int) *SetRun {
	r := &SetRun{
		session: check.NewSession(n),
		pending: n,
		done:    make(chan struct{}),
	}
	if n == 0 {
		close(r.done)
	}
	return r
}

func (r *SetRun) track(h *Handle) {
	r.mu.Lock()
	r.handles = append(r.handles, h)
	r.mu.Unlock()
}

func (r *SetRun) deliver(res check.CommandResult) {
	r.session.Add(res)

	r.mu.Lock()
	r.pending--
	last := r.pending == 0
	r.mu.Unlock()

	if last {
		close(r.done)
	}
}

// Handles returns one handle per check that was actually scheduled.
// Checks rejected by the in-flight guard have no handle; their rejection
// is recorded directly in the session.
func (r *SetRun) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Handle(nil), r.handles...)
}

// Done returns a channel closed once every scheduled check has reported.
func (r *SetRun) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until all results have arrived, then returns the session.
func (r *SetRun) Wait() *check.Session {
	<-r.done
	return r.session
}

// Session returns the aggregate session. Before Done it may be
// incomplete; its AllPassed predicate stays false until complete.
func (r *SetRun) Session() *check.Session {
	return r.session
}
