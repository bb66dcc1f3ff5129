package sqlauth

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// ProvisionTimeout bounds the local-store transaction for one provisioning
// pass.
var ProvisionTimeout = 10 * time.Second

// ProvisionResult reports what a provisioning pass actually changed.
type ProvisionResult struct {
	Account      *Account
	Created      bool
	EmailUpdated bool
}

// Provisioner lazily materializes local accounts for identities that proved
// their credentials against the external store, and keeps the denormalized
// e-mail field in sync with what the store reports.
type Provisioner struct {
	repo   RepositoryManager
	sink   ActivitySink
	logger Logger
}

// NewProvisioner will create a new Provisioner
func NewProvisioner(repo RepositoryManager) *Provisioner {
	return &Provisioner{
		repo:   repo,
		sink:   noopActivitySink{},
		logger: defLogger{},
	}
}

func (p *Provisioner) WithLogger(l Logger) *Provisioner {
	if l != nil {
		p.logger = l
	}
	return p
}

// WithActivitySink configures an ActivitySink notified on registrations and
// e-mail updates.
func (p *Provisioner) WithActivitySink(sink ActivitySink) *Provisioner {
	p.sink = normalizeActivitySink(sink)
	return p
}

// Provision ensures a local account exists for the given name and that its
// group e-mail matches the store's non-empty value. Both steps are
// idempotent and independent: an existing account with a stale e-mail still
// gets the e-mail step applied. Confirmation messages go to session when one
// is attached.
func (p *Provisioner) Provision(ctx context.Context, name, email string, session Session) (ProvisionResult, error) {
	var result ProvisionResult

	ctx, cancel := context.WithTimeout(ctx, ProvisionTimeout)
	defer cancel()

	err := p.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, created, err := p.ensureAccountTx(ctx, tx, name)
		if err != nil {
			return err
		}

		result.Account = account
		result.Created = created

		updated, err := p.syncEmailTx(ctx, tx, account, email)
		if err != nil {
			return err
		}
		result.EmailUpdated = updated

		return p.repo.Accounts().TouchLastSeenTx(ctx, tx, account)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return ProvisionResult{}, richErr
		}
		return ProvisionResult{}, goerrors.Wrap(err, goerrors.CategoryInternal, "account provisioning failed")
	}

	p.notify(ctx, result, email, session)

	return result, nil
}

func (p *Provisioner) ensureAccountTx(ctx context.Context, tx bun.Tx, name string) (*Account, bool, error) {
	account, err := p.repo.Accounts().FindByNameTx(ctx, tx, name)
	if err == nil {
		return account, false, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, false, err
	}

	// First login for this name: the owning group record has to exist
	// before the account row referencing it.
	group, err := p.ensureGroupTx(ctx, tx, name)
	if err != nil {
		return nil, false, err
	}

	record := &Account{
		Name:    name,
		GroupID: group.ID,
	}

	account, created, err := p.repo.Accounts().GetOrCreateTx(ctx, tx, record)
	if err != nil {
		return nil, false, err
	}

	if account.Group == nil {
		account.Group = group
	}

	return account, created, nil
}

func (p *Provisioner) ensureGroupTx(ctx context.Context, tx bun.Tx, name string) (*AccountGroup, error) {
	group, err := p.repo.Groups().GetByIdentifierTx(ctx, tx, name)
	if err == nil {
		return group, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	group = &AccountGroup{
		ID:      GroupIDForName(name),
		Display: name,
	}

	created, err := p.repo.Groups().CreateTx(ctx, tx, group)
	if err != nil {
		// Same conflict-tolerance as accounts: adopt a concurrent insert.
		if existing, ferr := p.repo.Groups().GetByIdentifierTx(ctx, tx, name); ferr == nil {
			return existing, nil
		}
		return nil, err
	}

	return created, nil
}

func (p *Provisioner) syncEmailTx(ctx context.Context, tx bun.Tx, account *Account, email string) (bool, error) {
	if email == "" || account.Group == nil || account.Group.Email == email {
		return false, nil
	}

	record := &AccountGroup{
		ID:    account.Group.ID,
		Email: email,
	}

	if _, err := p.repo.Groups().UpdateTx(ctx, tx, record, repository.UpdateByID(account.Group.ID.String())); err != nil {
		return false, err
	}

	account.Group.Email = email

	return true, nil
}

func (p *Provisioner) notify(ctx context.Context, result ProvisionResult, email string, session Session) {
	if result.Created {
		event := ActivityEvent{
			EventType:  ActivityEventAccountRegistered,
			Account:    result.Account.Name,
			OccurredAt: time.Now(),
		}
		if err := p.sink.Record(ctx, event); err != nil {
			p.logger.Warn("activity sink record error: %v", err)
		}
		if session != nil {
			session.SendMessage(fmt.Sprintf("Your account %s has been confirmed.", result.Account.Name))
		}
	}

	if result.EmailUpdated {
		event := ActivityEvent{
			EventType:  ActivityEventEmailUpdated,
			Account:    result.Account.Name,
			Metadata:   map[string]any{"email": email},
			OccurredAt: time.Now(),
		}
		if err := p.sink.Record(ctx, event); err != nil {
			p.logger.Warn("activity sink record error: %v", err)
		}
		if session != nil {
			session.SendMessage(fmt.Sprintf("E-mail set to %s.", email))
		}
	}
}
