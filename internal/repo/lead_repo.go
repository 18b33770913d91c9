// Package repo – lead repository.
//
// The repository follows a "thin" approach: it performs persistence and
// simple query composition, leaving business rules to the services package.
// Unexpected DB errors are propagated raw; the service layer translates
// them into domain errors where needed.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiox/forms-backend/internal/domain"
)

// ErrNotFound is the repo-level sentinel for missing rows, wrapping GORM's
// own sentinel so callers can errors.Is against either.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateLead inserts a lead row with status New and returns it.
// SubmittedAt falls back to the insert time when the edge did not attach one.
func CreateLead(ctx context.Context, db *gorm.DB, lead *domain.Lead) (*domain.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = domain.StatusNew
	}
	if lead.SubmittedAt.IsZero() {
		lead.SubmittedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

// GetLead returns the lead with the given id, or ErrNotFound.
func GetLead(ctx context.Context, db *gorm.DB, id string) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// UpdateLeadStatus sets the status (and optionally notes) of a lead.
// Returns ErrNotFound when no row matched. Status validity is enforced at
// the service layer.
func UpdateLeadStatus(ctx context.Context, db *gorm.DB, id, status, notes string) error {
	updates := map[string]any{"status": status}
	if notes != "" {
		updates["notes"] = notes
	}
	res := db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountLeads returns the total number of leads.
func CountLeads(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Lead{}).Count(&n).Error
	return n, err
}

// ListLeadsPage returns one page of leads, newest first, plus the total count.
func ListLeadsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Lead, int64, error) {
	total, err := CountLeads(ctx, db)
	if err != nil {
		return nil, 0, err
	}
	var leads []domain.Lead
	err = db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&leads).Error
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// CountLeadsByStatus returns a status → count map covering every known
// status, including zero rows.
func CountLeadsByStatus(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := db.WithContext(ctx).
		Model(&domain.Lead{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(domain.LeadStatuses))
	for _, s := range domain.LeadStatuses {
		out[s] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
