package sqlauth

import (
	"sync/atomic"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultDispatchTimeout bounds how long an attempt waits for the engine to
// call back before resolving through the error path.
var DefaultDispatchTimeout = 30 * time.Second

// Config is one immutable configuration snapshot. Reloads replace the whole
// snapshot; in-flight attempts keep the engine identifier and query template
// they captured at dispatch time.
type Config struct {
	// Engine identifies the store provider in the registry.
	Engine string
	// Query is the parameterized lookup template. Supported placeholders:
	// account, password, nickname, ip-address.
	Query string
	// DisableReason, when set, blocks account-registration commands with
	// this message.
	DisableReason string
	// DisableEmailReason, when set, blocks e-mail change commands with this
	// message.
	DisableEmailReason string
	// DispatchTimeout caps the wait for the engine callback. Zero means
	// DefaultDispatchTimeout; negative disables the deadline.
	DispatchTimeout time.Duration
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Engine, validation.Required),
		validation.Field(&c.Query, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid sqlauth configuration")
	}
	return nil
}

// Recognized option keys for ConfigFromOptions.
const (
	OptionEngine             = "engine"
	OptionQuery              = "query"
	OptionDisableReason      = "disable_reason"
	OptionDisableEmailReason = "disable_email_reason"
)

// ConfigFromOptions maps a host's flat option block onto a snapshot.
// Unrecognized keys are ignored; the result still has to pass Validate.
func ConfigFromOptions(options map[string]string) Config {
	return Config{
		Engine:             options[OptionEngine],
		Query:              options[OptionQuery],
		DisableReason:      options[OptionDisableReason],
		DisableEmailReason: options[OptionDisableEmailReason],
	}
}

// Settings holds the process-wide active snapshot, replaced atomically on
// reload.
type Settings struct {
	current atomic.Pointer[Config]
	logger  Logger
}

// NewSettings validates and installs the initial snapshot.
func NewSettings(cfg Config) (*Settings, error) {
	s := &Settings{logger: defLogger{}}
	if err := s.Reload(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) WithLogger(l Logger) *Settings {
	if l != nil {
		s.logger = l
	}
	return s
}

// Reload validates cfg and swaps it in as the active snapshot. A failed
// validation leaves the previous snapshot active.
func (s *Settings) Reload(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		s.logger.Error("configuration rejected: %v", err)
		return err
	}

	if cfg.DispatchTimeout == 0 {
		cfg.DispatchTimeout = DefaultDispatchTimeout
	}

	s.current.Store(&cfg)
	s.logger.Info("configuration loaded: engine=%s", cfg.Engine)

	return nil
}

// Snapshot returns the active configuration by value. Callers that need
// dispatch-time capture semantics keep the returned copy.
func (s *Settings) Snapshot() Config {
	if cfg := s.current.Load(); cfg != nil {
		return *cfg
	}
	return Config{}
}
