// Package repo – unsubscribe set repository.
//
// The unsubscribe set is consulted before any marketing-flavored email is
// sent, and appended to at most once per address. Addresses are normalized
// to lower case on write so the unique index doubles as the idempotency
// guard.
package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiox/forms-backend/internal/domain"
)

// IsUnsubscribed reports whether email is present in the unsubscribe set.
// Matching is case-insensitive.
func IsUnsubscribed(ctx context.Context, db *gorm.DB, email string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Unsubscribe{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&n).Error
	return n > 0, err
}

// AddUnsubscribe appends email to the unsubscribe set. The append is
// idempotent: a repeat unsubscribe returns created=false with no error and
// no duplicate row.
func AddUnsubscribe(ctx context.Context, db *gorm.DB, email, reason string) (created bool, err error) {
	rec := &domain.Unsubscribe{
		ID:     uuid.NewString(),
		Email:  normalizeEmail(email),
		Reason: reason,
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isDuplicate(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountUnsubscribes returns the size of the unsubscribe set.
func CountUnsubscribes(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Unsubscribe{}).Count(&n).Error
	return n, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isDuplicate detects unique-constraint violations across drivers that may
// not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
