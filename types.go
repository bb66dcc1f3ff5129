package sqlauth

import "fmt"

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// IdentifyRequest is the caller-owned object representing one "confirm or
// deny this login" intent. The host keeps it alive while the hold count is
// positive; Success resolves it. The owner tag identifies who placed a hold
// so a request can detect unbalanced Release calls.
type IdentifyRequest interface {
	GetAccount() string
	GetPassword() string
	Hold(owner any)
	Release(owner any)
	Success(owner any)
}

// Refuser is an optional capability on an IdentifyRequest. Hosts that can
// signal an explicit denial implement it; requests without it keep the
// silent-drop behavior on failed authentication.
type Refuser interface {
	Refuse(owner any)
}

// Session is the live caller connection attached to an identify request, if
// any. The attempt never owns the session and must tolerate it going away
// mid flight, so hosts should hand in a wrapper that drops messages for a
// disconnected caller.
type Session interface {
	Nick() string
	IP() string
	SendMessage(message string)
}

// CommandSource receives pre-command gate replies.
type CommandSource interface {
	Reply(message string)
}

// Row is one lookup result row. Column access is permissive: a missing
// column reads as the empty string, never an error.
type Row map[string]string

func (r Row) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// Query parameter names bound by the dispatcher. The template's placeholder
// syntax is engine-defined; engines substitute these by name.
const (
	ParamAccount   = "account"
	ParamPassword  = "password"
	ParamNickname  = "nickname"
	ParamIPAddress = "ip-address"
)

// Query is a parameterized credential lookup submitted to an Engine.
type Query struct {
	Template string
	Params   map[string]string
}

// ResultSink receives the outcome of a query submitted to an Engine. The
// engine invokes exactly one of the two methods, exactly once, on an
// arbitrary later turn.
type ResultSink interface {
	OnResult(rows []Row)
	OnError(err error)
}

// Engine is an external relational store that can run credential lookups.
// Run is fire and forget; the result arrives later on the sink.
type Engine interface {
	Run(sink ResultSink, q Query)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SQLAUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SQLAUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SQLAUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SQLAUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
