package sqlauth_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-featuregate/gate"
	sqlauth "github.com/goliatone/go-sqlauth"
)

// stubEngine captures the sink and query from Run so tests can deliver the
// callback on their own schedule, the way a real engine would on a later
// turn.
type stubEngine struct {
	mu    sync.Mutex
	sinks []sqlauth.ResultSink
	query sqlauth.Query
	runs  int
}

func (e *stubEngine) Run(sink sqlauth.ResultSink, q sqlauth.Query) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, sink)
	e.query = q
	e.runs++
}

func (e *stubEngine) lastSink() sqlauth.ResultSink {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sinks) == 0 {
		return nil
	}
	return e.sinks[len(e.sinks)-1]
}

// stubIdentifyRequest implements sqlauth.IdentifyRequest plus the optional
// Refuser capability, tracking the hold count and resolution signals.
type stubIdentifyRequest struct {
	mu       sync.Mutex
	account  string
	password string
	holds    int
	success  int
	refusals int
}

func (r *stubIdentifyRequest) GetAccount() string  { return r.account }
func (r *stubIdentifyRequest) GetPassword() string { return r.password }

func (r *stubIdentifyRequest) Hold(owner any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holds++
}

func (r *stubIdentifyRequest) Release(owner any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holds--
}

func (r *stubIdentifyRequest) Success(owner any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
}

func (r *stubIdentifyRequest) Refuse(owner any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refusals++
}

func (r *stubIdentifyRequest) holdCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.holds
}

func (r *stubIdentifyRequest) successCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.success
}

func (r *stubIdentifyRequest) refusalCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refusals
}

// plainIdentifyRequest shadows Refuse with a different signature so the
// type does not satisfy Refuser; failed authentication must resolve
// silently for it.
type plainIdentifyRequest struct {
	stubIdentifyRequest
}

func newPlainIdentifyRequest(account, password string) *plainIdentifyRequest {
	req := &plainIdentifyRequest{}
	req.account = account
	req.password = password
	return req
}

func (r *plainIdentifyRequest) Refuse() {}

type stubSession struct {
	mu       sync.Mutex
	nick     string
	ip       string
	messages []string
}

func (s *stubSession) Nick() string { return s.nick }
func (s *stubSession) IP() string   { return s.ip }

func (s *stubSession) SendMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
}

func (s *stubSession) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

type stubCommandSource struct {
	replies []string
}

func (s *stubCommandSource) Reply(message string) {
	s.replies = append(s.replies, message)
}

type capturingSink struct {
	mu     sync.Mutex
	events []sqlauth.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, event sqlauth.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturingSink) recorded() []sqlauth.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sqlauth.ActivityEvent(nil), c.events...)
}

func (c *capturingSink) countOf(eventType sqlauth.ActivityEventType) int {
	n := 0
	for _, event := range c.recorded() {
		if event.EventType == eventType {
			n++
		}
	}
	return n
}

type stubFeatureGate struct {
	enabled map[string]bool
	calls   []string
	err     error
}

func (s *stubFeatureGate) Enabled(ctx context.Context, key string, opts ...gate.ResolveOption) (bool, error) {
	s.calls = append(s.calls, key)
	if s.err != nil {
		return false, s.err
	}
	if s.enabled == nil {
		return true, nil
	}
	enabled, ok := s.enabled[key]
	if !ok {
		return true, nil
	}
	return enabled, nil
}
