package procmaturity

import (
	"sync"

	"github.com/nsip/procurement-maturity/internal/report"
	"github.com/nsip/procurement-maturity/internal/workflow"
)

//
// a workflow session and the report built when it was submitted.
// the embedded mutex serializes requests against one session.
//
type liveSession struct {
	sync.Mutex
	session *workflow.Session
	report  *report.Report
}

//
// in-memory registry of assessment sessions, keyed by session id.
// sessions do not survive a restart; submitted records do, in the store.
//
type sessions struct {
	mu   sync.RWMutex
	byID map[string]*liveSession
}

func newSessions() *sessions {
	return &sessions{byID: map[string]*liveSession{}}
}

func (r *sessions) add(s *workflow.Session) *liveSession {
	ls := &liveSession{session: s}
	r.mu.Lock()
	r.byID[s.ID] = ls
	r.mu.Unlock()
	return ls
}

func (r *sessions) get(id string) (*liveSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ls, ok := r.byID[id]
	return ls, ok
}
