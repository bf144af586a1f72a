package entity

import (
	"time"

	"github.com/google/uuid"
)

// RowStatus is the email send status shown on a lead row.
type RowStatus string

const (
	RowStatusPending   RowStatus = "Pending"
	RowStatusCompleted RowStatus = "Completed"
	RowStatusFailed    RowStatus = "Failed"
)

type LeadRow struct {
	ID            string    `json:"id"`
	SheetID       string    `json:"sheetId"`
	UserID        string    `json:"userId"`
	SheetName     string    `json:"sheetName"`
	RowIndex      int       `json:"rowIndex"`
	BusinessEmail *string   `json:"businessEmail"`
	WebsiteURL    *string   `json:"websiteUrl"`
	EmailStatus   RowStatus `json:"emailStatus"`
	HasReplied    *bool     `json:"hasReplied"` // nil = unknown
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewLeadRow builds a row for sheet. RowIndex is assigned by the repository
// when the row is appended.
func NewLeadRow(sheet *LeadSheet, businessEmail, websiteURL *string) *LeadRow {
	now := time.Now().UTC()
	return &LeadRow{
		ID:            uuid.New().String(),
		SheetID:       sheet.ID,
		UserID:        sheet.UserID,
		SheetName:     sheet.SheetName,
		BusinessEmail: businessEmail,
		WebsiteURL:    websiteURL,
		EmailStatus:   RowStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// RowPosition is the (id, rowIndex) pair used when renumbering a sheet.
type RowPosition struct {
	ID       string
	RowIndex int
}

// ReindexPlan takes positions already ordered by current rowIndex and returns
// the positions whose index must change so the sheet becomes 0..N-1. The
// relative order of the input is kept; rows already in place are omitted.
func ReindexPlan(ordered []RowPosition) []RowPosition {
	var changes []RowPosition
	for i, p := range ordered {
		if p.RowIndex != i {
			changes = append(changes, RowPosition{ID: p.ID, RowIndex: i})
		}
	}
	return changes
}
