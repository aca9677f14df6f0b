package check

import "sync"

// Session is the aggregate record of results for one invocation of one or
// more checks. Results are appended as checks complete; insertion order is
// check start order, which matters only for report ordering.
//
// A Session is owned by the orchestration call that created it. The only
// cross-worker operation is Add, which is a single critical section so
// near-simultaneous completions of distinct checks never lose updates.
type Session struct {
	mu        sync.Mutex
	scheduled int
	order     []string
	results   map[string]CommandResult
}

// NewSession creates a Session expecting results from n scheduled checks.
func NewSession(n int) *Session {
	return &Session{
		scheduled: n,
		order:     make([]string, 0, n),
		results:   make(map[string]CommandResult, n),
	}
}

// Add records the result for one check. The orchestrator's
// one-active-execution-per-check contract means no two workers ever add
// the same name concurrently; a duplicate name keeps the first result.
func (s *Session) Add(res CommandResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.results[res.CheckName]; dup {
		return
	}
	s.order = append(s.order, res.CheckName)
	s.results[res.CheckName] = res
}

// Result returns the result for name, if one has been recorded.
func (s *Session) Result(name string) (CommandResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.results[name]
	return res, ok
}

// Results returns recorded results in insertion order.
func (s *Session) Results() []CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CommandResult, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.results[name])
	}
	return out
}

// Len returns the number of recorded results.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Scheduled returns the number of checks scheduled into this session.
func (s *Session) Scheduled() int {
	return s.scheduled
}

// Complete reports whether every scheduled check has a result.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order) == s.scheduled
}

// AllPassed reports whether every scheduled check has reported a success.
// It is false, not unknown, while results are still outstanding. A session
// scheduled with zero checks is complete and vacuously passing.
func (s *Session) AllPassed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) != s.scheduled {
		return false
	}
	for _, res := range s.results {
		if !res.Status.Success() {
			return false
		}
	}
	return true
}
