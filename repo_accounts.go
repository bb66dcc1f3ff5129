package sqlauth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Accounts interface {
	FindByName(ctx context.Context, name string) (*Account, error)
	FindByNameTx(ctx context.Context, tx bun.IDB, name string) (*Account, error)

	Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error)
	GetOrCreate(ctx context.Context, record *Account) (*Account, bool, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, bool, error)

	TouchLastSeen(ctx context.Context, account *Account) error
	TouchLastSeenTx(ctx context.Context, tx bun.IDB, account *Account) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts = (*accounts)(nil)
)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) FindByName(ctx context.Context, name string) (*Account, error) {
	return a.FindByNameTx(ctx, a.db, name)
}

func (a *accounts) FindByNameTx(ctx context.Context, tx bun.IDB, name string) (*Account, error) {
	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Relation("Group").
		Relation("Group.Aliases").
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"name": name,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	prepareAccountDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *accounts) GetOrCreate(ctx context.Context, record *Account) (*Account, bool, error) {
	return a.GetOrCreateTx(ctx, a.db, record)
}

// GetOrCreateTx inserts first and falls back to a re-read when the unique
// name constraint rejects the insert, so two racing first logins for the
// same name converge on a single row. The boolean reports whether this call
// performed the insert; only that caller should fire a registration
// notification.
func (a *accounts) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, bool, error) {
	existing, err := a.FindByNameTx(ctx, tx, record.Name)
	if err == nil {
		return existing, false, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, false, err
	}

	inserted, err := a.CreateTx(ctx, tx, record)
	if err == nil {
		return inserted, true, nil
	}

	// Lost the insert race: someone else created the row between our read
	// and write. Re-read and adopt their record.
	if existing, ferr := a.FindByNameTx(ctx, tx, record.Name); ferr == nil {
		return existing, false, nil
	}

	return nil, false, err
}

func (a *accounts) TouchLastSeen(ctx context.Context, account *Account) error {
	return a.TouchLastSeenTx(ctx, a.db, account)
}

func (a *accounts) TouchLastSeenTx(ctx context.Context, tx bun.IDB, account *Account) error {
	now := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "accounts" AS "acc"
		SET
			"last_seen_at" = ?,
			"updated_at" = ?
		WHERE
			("acc".id = ?);
	`, now, now, account.ID).Exec(ctx)

	return err
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	// Deterministic IDs keep concurrent first logins for the same name
	// converging on the same row.
	if record.ID == uuid.Nil {
		if id, err := hashid.NewUUID("account:" + record.Name); err == nil {
			record.ID = id
		}
	}
}
