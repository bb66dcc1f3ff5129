package sqlauth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountGroup is the owning profile core for one or more aliased account
// names. Account-wide settings (for now the e-mail field) live here.
type AccountGroup struct {
	bun.BaseModel `bun:"table:account_groups,alias:grp"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Display       string     `bun:"display,notnull" json:"display,omitempty"`
	Email         string     `bun:"email" json:"email,omitempty"`
	Aliases       []*Account `bun:"rel:has-many,join:id=group_id" json:"aliases,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Account is one aliased account name. Case normalization of the name is
// owned by the host's account store; we treat it as an opaque unique key.
// Accounts are created lazily on first successful authentication and never
// deleted by this module.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string        `bun:"name,notnull,unique" json:"name,omitempty"`
	GroupID       uuid.UUID     `bun:"group_id,notnull,type:uuid" json:"group_id,omitempty"`
	Group         *AccountGroup `bun:"rel:belongs-to,join:group_id=id" json:"group,omitempty"`
	LastSeenAt    *time.Time    `bun:"last_seen_at,nullzero" json:"last_seen_at,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsGroupDisplay reports whether this name is its group's primary display
// name. Requires the Group relation to be loaded.
func (a *Account) IsGroupDisplay() bool {
	return a != nil && a.Group != nil && a.Group.Display == a.Name
}
