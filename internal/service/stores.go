// Package service holds the password-reset workflow: issuing 6-digit codes
// and redeeming them. It talks to storage and mail through small interfaces
// so the workflow can be tested without MySQL or a broker.
package service

import (
	"context"
	"time"

	"github.com/taskhub/taskhub-api/internal/model"
)

// UserStore is the slice of the user repository the reset workflow needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
}

// ResetTokenStore persists reset-code records.
type ResetTokenStore interface {
	Insert(ctx context.Context, userID uint64, code string, expiresAt time.Time) error
	FindByCodeAndEmail(ctx context.Context, code, email string) (model.ResetToken, error)
	ExpireAllForUser(ctx context.Context, userID uint64, expiresAt time.Time) error
	ExpireByID(ctx context.Context, id uint64, expiresAt time.Time) error
}

// Mailer delivers the reset code to the user's address.
type Mailer interface {
	SendResetCode(ctx context.Context, to, code string) error
}
