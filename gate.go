package sqlauth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-featuregate/gate/guard"
)

// Command names intercepted by the pre-command gate.
const (
	CommandRegister = "nickserv/register"
	CommandGroup    = "nickserv/group"
	CommandSetEmail = "nickserv/set/email"
)

// Feature gate keys consulted in addition to the configured disable
// messages.
const (
	FeatureAccountRegister = gate.FeatureUsersSignup
	FeatureAccountEmail    = "users.email.update"
)

// CommandGate is the synchronous, stateless policy check that runs before
// registration and e-mail change commands execute. It is independent of the
// asynchronous attempt machinery: when external authentication owns account
// creation, the local register/group/set-email commands get suppressed.
type CommandGate struct {
	settings    *Settings
	featureGate gate.FeatureGate
	logger      Logger
}

// NewCommandGate returns a new CommandGate
func NewCommandGate(settings *Settings) *CommandGate {
	return &CommandGate{
		settings: settings,
		logger:   defLogger{},
	}
}

func (g *CommandGate) WithLogger(l Logger) *CommandGate {
	if l != nil {
		g.logger = l
	}
	return g
}

// WithFeatureGate wires a feature gate consulted after the configured
// disable messages, so hosts can toggle registration without a reload.
func (g *CommandGate) WithFeatureGate(fg gate.FeatureGate) *CommandGate {
	g.featureGate = fg
	return g
}

// PreCommand reports whether command must be suppressed. A blocked command
// gets the policy message replied to source and never executes.
func (g *CommandGate) PreCommand(ctx context.Context, source CommandSource, command string) bool {
	cfg := g.settings.Snapshot()

	switch command {
	case CommandRegister, CommandGroup:
		if cfg.DisableReason != "" {
			g.reply(source, cfg.DisableReason)
			return true
		}
		if err := g.requireFeature(ctx, FeatureAccountRegister, ErrRegistrationDisabled); err != nil {
			g.reply(source, ErrRegistrationDisabled.Error())
			return true
		}
	case CommandSetEmail:
		if cfg.DisableEmailReason != "" {
			g.reply(source, cfg.DisableEmailReason)
			return true
		}
		if err := g.requireFeature(ctx, FeatureAccountEmail, ErrEmailChangeDisabled); err != nil {
			g.reply(source, ErrEmailChangeDisabled.Error())
			return true
		}
	}

	return false
}

func (g *CommandGate) requireFeature(ctx context.Context, key string, disabledErr error) error {
	if g.featureGate == nil {
		return nil
	}
	return guard.Require(ctx, g.featureGate, key,
		guard.WithDisabledError(disabledErr),
		guard.WithErrorMapper(normalizeFeatureGateError),
	)
}

func normalizeFeatureGateError(err error) error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return err
	}

	return goerrors.Wrap(err, goerrors.CategoryAuthz, "feature gate check failed").
		WithCode(goerrors.CodeForbidden)
}

func (g *CommandGate) reply(source CommandSource, message string) {
	if source != nil {
		source.Reply(message)
	}
}
