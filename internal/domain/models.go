// Package domain defines the persistence models for leads, marketing
// contacts, and unsubscribe records. These types are mapped with GORM and
// form the CRM-side data layer of the forms backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Lead status values. A lead starts as New and is advanced manually by the
// operator working the pipeline; rows are never deleted by this system.
const (
	StatusNew           = "New"
	StatusContacted     = "Contacted"
	StatusScheduled     = "Scheduled"
	StatusConverted     = "Converted"
	StatusNotInterested = "Not Interested"
	StatusFollowUp      = "Follow Up"
)

// LeadStatuses lists every valid lead status, in pipeline order.
var LeadStatuses = []string{
	StatusNew,
	StatusContacted,
	StatusScheduled,
	StatusConverted,
	StatusNotInterested,
	StatusFollowUp,
}

// ValidStatus reports whether s is one of the allowed lead statuses.
func ValidStatus(s string) bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Lead is one contact-form submission tracked through the sales pipeline.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name/Email/Phone/Interest/Message: the sanitized submission fields.
//   - MarketingConsent: whether the visitor opted in ("yes" at submit time).
//   - Source: where the lead came from (e.g. "Website Form").
//   - Status: pipeline status, see LeadStatuses.
//   - Notes: free-form operator notes.
//   - SubmittedAt: timestamp attached at the edge.
//   - Country / IP / UserAgent: request metadata captured at the edge.
type Lead struct {
	ID               string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Name             string         `json:"name"       gorm:"type:varchar(255);not null"`
	Email            string         `json:"email"      gorm:"type:varchar(320);not null;index:idx_lead_email"`
	Phone            string         `json:"phone,omitempty" gorm:"type:varchar(64)"`
	Interest         string         `json:"interest,omitempty" gorm:"type:varchar(64)"`
	Message          string         `json:"message"    gorm:"type:text;not null"`
	MarketingConsent bool           `json:"marketing_consent"`
	Source           string         `json:"source"     gorm:"type:varchar(64)"`
	Status           string         `json:"status"     gorm:"type:varchar(32);not null;default:'New';index:idx_lead_status"`
	Notes            string         `json:"notes,omitempty" gorm:"type:text"`
	SubmittedAt      time.Time      `json:"submitted_at"`
	Country          string         `json:"country,omitempty" gorm:"type:varchar(8)"`
	IP               string         `json:"-"          gorm:"type:varchar(64)"`
	UserAgent        string         `json:"-"          gorm:"type:varchar(512)"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Lead.
func (Lead) TableName() string { return "leads" }

// MarketingContact is a row on the marketing list: an address that opted in
// to updates. Rows are removed when the address unsubscribes.
type MarketingContact struct {
	ID        string         `json:"id"     gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"   gorm:"type:varchar(255)"`
	Email     string         `json:"email"  gorm:"type:varchar(320);not null;index:idx_marketing_email"`
	Source    string         `json:"source" gorm:"type:varchar(64)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"      gorm:"index"`
}

// TableName returns the database table name for MarketingContact.
func (MarketingContact) TableName() string { return "marketing_contacts" }

// Unsubscribe records that an address must not receive marketing-flavored
// email. Addresses are stored lower-cased and the set is checked
// case-insensitively; at most one row exists per address (repeat
// unsubscribes report success without appending).
type Unsubscribe struct {
	ID        string         `json:"id"     gorm:"type:char(36);primaryKey"`
	Email     string         `json:"email"  gorm:"type:varchar(320);not null;uniqueIndex:ux_unsub_email"`
	Reason    string         `json:"reason,omitempty" gorm:"type:varchar(512)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"      gorm:"index"`
}

// TableName returns the database table name for Unsubscribe.
func (Unsubscribe) TableName() string { return "unsubscribes" }
