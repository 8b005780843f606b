package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/taskhub/taskhub-api/internal/apperr"
	"github.com/taskhub/taskhub-api/internal/auth"
	"github.com/taskhub/taskhub-api/internal/model"
	"github.com/taskhub/taskhub-api/internal/repository"
)

const (
	// codeLifetime is how long a freshly issued code stays redeemable.
	codeLifetime = 5 * time.Minute
	// invalidationBackdate is how far into the past an expiry is rewritten
	// when a record is invalidated, either by re-issuance or redemption.
	invalidationBackdate = time.Minute
)

// PasswordReset issues and redeems password-reset codes.
type PasswordReset struct {
	users      UserStore
	tokens     ResetTokenStore
	mailer     Mailer
	bcryptCost int
	now        func() time.Time
}

func NewPasswordReset(users UserStore, tokens ResetTokenStore, mailer Mailer, bcryptCost int) *PasswordReset {
	return &PasswordReset{
		users:      users,
		tokens:     tokens,
		mailer:     mailer,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SendResetCode issues a fresh code for the account behind email and hands
// it to the mailer. Every prior record for that user, expired or not, is
// backdated first so at most one redeemable code exists afterwards.
// Delivery failures are not swallowed; they propagate to the caller.
func (s *PasswordReset) SendResetCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "user with email "+email+" not found")
		}
		return err
	}

	if err := s.tokens.ExpireAllForUser(ctx, user.ID, s.now().Add(-invalidationBackdate)); err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.tokens.Insert(ctx, user.ID, code, s.now().Add(codeLifetime)); err != nil {
		return err
	}
	return s.mailer.SendResetCode(ctx, user.Email, code)
}

// VerifyCode checks that (code, email) names a redeemable record. It is
// read-only: verifying never consumes the code, so a client may call it
// repeatedly before committing to a reset.
func (s *PasswordReset) VerifyCode(ctx context.Context, code, email string) error {
	_, err := s.lookup(ctx, code, email)
	return err
}

// ResetPassword redeems a code: it re-hashes and stores the new password,
// then backdates the record so the same code can never be redeemed twice.
// The hash update and the invalidation are two sequential writes; a crash
// between them leaves the code live for at most its natural expiry window.
func (s *PasswordReset) ResetPassword(ctx context.Context, code, newPassword, confirmPassword, email string) error {
	if newPassword != confirmPassword {
		return apperr.New(apperr.KindValidation, "Passwords do not match")
	}

	token, err := s.lookup(ctx, code, email)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, token.UserID, hash); err != nil {
		return err
	}
	return s.tokens.ExpireByID(ctx, token.ID, s.now().Add(-invalidationBackdate))
}

func (s *PasswordReset) lookup(ctx context.Context, code, email string) (model.ResetToken, error) {
	token, err := s.tokens.FindByCodeAndEmail(ctx, code, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ResetToken{}, apperr.New(apperr.KindInvalidToken, "Invalid token")
		}
		return model.ResetToken{}, err
	}
	if token.Expired(s.now()) {
		return model.ResetToken{}, apperr.New(apperr.KindExpiredToken, "Token has expired")
	}
	return token, nil
}

// generateCode draws a uniform integer in [0, 1,000,000) and zero-pads it
// to six digits. Codes like "004213" are valid and must always be compared
// as strings.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
