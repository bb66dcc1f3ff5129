package sqlauth

import (
	"context"
	"sync"
	"time"
)

// Attempt ties one (account, password, caller) triple to exactly one
// outcome. It is the ResultSink for the query the dispatcher submitted on
// its behalf and holds the identify request alive for its whole lifetime.
//
// States are Pending and Resolved, one forward transition. Whichever of the
// engine callback, the deadline timer, or a buggy double delivery gets to
// resolve first wins; everything after that is a no-op.
type Attempt struct {
	mu       sync.Mutex
	resolved bool

	req     IdentifyRequest
	session Session

	// captured at dispatch time; a config reload must not retarget an
	// in-flight attempt
	query    Query
	password string

	provisioner *Provisioner
	sink        ActivitySink
	logger      Logger
	timer       *time.Timer
}

var _ ResultSink = (*Attempt)(nil)

func newAttempt(session Session, req IdentifyRequest, q Query, timeout time.Duration, provisioner *Provisioner, sink ActivitySink, logger Logger) *Attempt {
	a := &Attempt{
		req:         req,
		session:     session,
		query:       q,
		password:    req.GetPassword(),
		provisioner: provisioner,
		sink:        normalizeActivitySink(sink),
		logger:      logger,
	}

	req.Hold(a)

	if timeout > 0 {
		a.timer = time.AfterFunc(timeout, a.expire)
	}

	return a
}

// begin claims the attempt's single resolution. It returns false when the
// attempt already resolved, in which case the caller must do nothing.
func (a *Attempt) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resolved {
		return false
	}
	a.resolved = true
	return true
}

// finish releases the lifecycle hold. Reached exactly once, via begin.
func (a *Attempt) finish() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.req.Release(a)
}

// OnResult handles the engine's result set and runs the remainder of the
// attempt to completion: normalize, verify, provision, resolve.
func (a *Attempt) OnResult(rows []Row) {
	if !a.begin() {
		return
	}
	defer a.finish()

	account := a.req.GetAccount()

	if len(rows) == 0 {
		a.logger.Info("user %q not found", account)
		a.record(ActivityEventLookupMiss, account, nil)
		a.refuse()
		return
	}

	a.logger.Debug("user %q found, verifying credentials", account)

	// The query should select at most one credential row; we do not trust
	// the store to enforce that and only ever read row 0.
	row := rows[0]
	hash := NormalizeHash(row.Get("password"))
	email := row.Get("email")

	err := ComparePasswordAndHash(a.password, hash)
	if IsVerifyError(err) {
		a.logger.Error("bcrypt comparison failed for %q: %v", account, err)
		return
	}

	if err != nil {
		a.logger.Info("unsuccessful authentication for %q", account)
		a.record(ActivityEventLoginFailure, account, nil)
		a.refuse()
		return
	}

	if _, err := a.provisioner.Provision(context.Background(), account, email, a.session); err != nil {
		a.logger.Error("provisioning failed for %q: %v", account, err)
		return
	}

	a.logger.Info("user %q logged in", account)
	a.record(ActivityEventLoginSuccess, account, nil)
	a.req.Success(a)
}

// OnError handles a transport-level failure from the engine. The attempt
// resolves silently: no success, no explicit denial.
func (a *Attempt) OnError(err error) {
	if !a.begin() {
		return
	}
	defer a.finish()

	a.logger.Error("error executing query %q: %v", a.query.Template, err)
}

// expire fires when the engine never called back within the deadline, so a
// store outage cannot accumulate held identify requests.
func (a *Attempt) expire() {
	if !a.begin() {
		return
	}
	defer a.finish()

	a.logger.Error("authentication attempt for %q timed out", a.req.GetAccount())
}

func (a *Attempt) refuse() {
	if r, ok := a.req.(Refuser); ok {
		r.Refuse(a)
	}
}

func (a *Attempt) record(event ActivityEventType, account string, metadata map[string]any) {
	err := a.sink.Record(context.Background(), ActivityEvent{
		EventType:  event,
		Account:    account,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	})
	if err != nil {
		a.logger.Warn("activity sink record error: %v", err)
	}
}
