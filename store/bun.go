package store

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-session"
	"github.com/uptrace/bun"
)

// sessionRecord is the single-row table backing BunStore. The column names
// mirror the key-value entries the mobile clients persist, so a support
// engineer can read either store the same way.
type sessionRecord struct {
	bun.BaseModel `bun:"table:session_state,alias:ss"`

	ID             int64  `bun:"id,pk"`
	Token          string `bun:"session_token"`
	Username       string `bun:"user_name"`
	Email          string `bun:"user_email"`
	ProfileIconURL string `bun:"profile_icon_url"`
	Role           string `bun:"user_type"`
}

const sessionRecordID = 1

// BunStore persists the session in an embedded SQLite database, for
// desktop installs that already ship one.
type BunStore struct {
	db *bun.DB
}

var _ session.TokenStore = (*BunStore)(nil)

// NewBunStore creates a SQLite-backed store on the given database.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// Init creates the backing table. Call once at startup.
func (b *BunStore) Init(ctx context.Context) error {
	_, err := b.db.NewCreateTable().
		Model((*sessionRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create session table")
	}
	return nil
}

func (b *BunStore) Get(ctx context.Context) (session.Session, error) {
	record := &sessionRecord{}
	err := b.db.NewSelect().
		Model(record).
		Where("ss.id = ?", sessionRecordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, nil
		}
		return session.Session{}, nil
	}

	s := session.Session{
		Token:          record.Token,
		Username:       record.Username,
		Email:          record.Email,
		ProfileIconURL: record.ProfileIconURL,
		Role:           session.Role(record.Role),
	}
	return s.Normalize(), nil
}

func (b *BunStore) Set(ctx context.Context, s session.Session) error {
	s = s.Normalize()
	record := &sessionRecord{
		ID:             sessionRecordID,
		Token:          s.Token,
		Username:       s.Username,
		Email:          s.Email,
		ProfileIconURL: s.ProfileIconURL,
		Role:           string(s.Role),
	}

	_, err := b.db.NewInsert().
		Model(record).
		On("CONFLICT (id) DO UPDATE").
		Set("session_token = EXCLUDED.session_token").
		Set("user_name = EXCLUDED.user_name").
		Set("user_email = EXCLUDED.user_email").
		Set("profile_icon_url = EXCLUDED.profile_icon_url").
		Set("user_type = EXCLUDED.user_type").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to persist session")
	}
	return nil
}

func (b *BunStore) Clear(ctx context.Context) error {
	_, err := b.db.NewDelete().
		Model((*sessionRecord)(nil)).
		Where("id = ?", sessionRecordID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to clear session")
	}
	return nil
}
