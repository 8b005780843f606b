package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskhub/taskhub-api/internal/model"
)

// ResetTokenRepo persists password-reset codes. Records are invalidated by
// rewriting expires_at into the past, never deleted, so the table keeps a
// full history of issued codes.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Insert stores a freshly issued code.
func (r *ResetTokenRepo) Insert(ctx context.Context, userID uint64, code string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, code, expires_at) VALUES (?,?,?)",
		userID, code, expiresAt)
	return err
}

// FindByCodeAndEmail looks a record up by its code and the owning user's
// email. The code is matched as a string so leading zeros are significant.
func (r *ResetTokenRepo) FindByCodeAndEmail(ctx context.Context, code, email string) (model.ResetToken, error) {
	var t model.ResetToken
	err := r.DB.QueryRowContext(ctx,
		`SELECT t.id, t.user_id, t.code, t.expires_at, t.created_at
		   FROM password_reset_tokens t
		   JOIN users u ON u.id = t.user_id
		  WHERE t.code = ? AND u.email = ?
		  ORDER BY t.id DESC LIMIT 1`,
		code, email).Scan(&t.ID, &t.UserID, &t.Code, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResetToken{}, ErrNotFound
	}
	return t, err
}

// ExpireAllForUser rewrites the expiry of every record owned by the user
// (including already-expired ones) to the given timestamp. Issuing a new
// code calls this first so at most one redeemable record survives.
func (r *ResetTokenRepo) ExpireAllForUser(ctx context.Context, userID uint64, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET expires_at=? WHERE user_id=?",
		expiresAt, userID)
	return err
}

// ExpireByID rewrites a single record's expiry. Used for the single-use
// guarantee after a successful redemption.
func (r *ResetTokenRepo) ExpireByID(ctx context.Context, id uint64, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET expires_at=? WHERE id=?",
		expiresAt, id)
	return err
}
