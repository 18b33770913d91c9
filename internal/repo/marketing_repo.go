// Package repo – marketing list repository.
package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiox/forms-backend/internal/domain"
)

// AddMarketingContact appends an opted-in address to the marketing list.
// The list tolerates duplicates (the spreadsheet it models did too); the
// unsubscribe flow removes every matching row.
func AddMarketingContact(ctx context.Context, db *gorm.DB, name, email, source string) error {
	mc := &domain.MarketingContact{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Source: source,
	}
	return db.WithContext(ctx).Create(mc).Error
}

// RemoveMarketingContacts deletes every marketing-list row whose address
// matches email case-insensitively. Returns the number of rows removed.
func RemoveMarketingContacts(ctx context.Context, db *gorm.DB, email string) (int64, error) {
	res := db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Delete(&domain.MarketingContact{})
	return res.RowsAffected, res.Error
}

// CountMarketingContacts returns the size of the marketing list.
func CountMarketingContacts(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.MarketingContact{}).Count(&n).Error
	return n, err
}
