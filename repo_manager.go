package sqlauth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Accounts() Accounts
	Groups() repository.Repository[*AccountGroup]
}

func NewAccountGroupsRepository(db *bun.DB) repository.Repository[*AccountGroup] {
	handlers := repository.ModelHandlers[*AccountGroup]{
		NewRecord: func() *AccountGroup {
			return &AccountGroup{}
		},
		GetID: func(record *AccountGroup) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *AccountGroup, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "display"
		},
	}
	return repository.NewRepository(db, handlers)
}

type mngr struct {
	db       *bun.DB
	accounts Accounts
	groups   repository.Repository[*AccountGroup]
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		accounts: NewAccountsRepository(db),
		groups:   NewAccountGroupsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	if m.groups == nil {
		return errors.New("repository groups should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Accounts() Accounts {
	return m.accounts
}

func (m mngr) Groups() repository.Repository[*AccountGroup] {
	return m.groups
}

// GroupIDForName derives the deterministic profile-core id for a first-seen
// account name.
func GroupIDForName(name string) uuid.UUID {
	if id, err := hashid.NewUUID("group:" + name); err == nil {
		return id
	}
	return uuid.New()
}
