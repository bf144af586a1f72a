package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxSheetNameLength = 255

type LeadSheet struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SheetName   string    `json:"sheetName"`
	FileExt     string    `json:"fileExt,omitempty"` // csv, xls, xlsx
	SignatureID *string   `json:"signatureId,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`

	// Only filled by list queries.
	RowCount int `json:"rowCount"`
}

func NewLeadSheet(userID, name, fileExt string, signatureID *string) *LeadSheet {
	return &LeadSheet{
		ID:          uuid.New().String(),
		UserID:      userID,
		SheetName:   strings.TrimSpace(name),
		FileExt:     fileExt,
		SignatureID: signatureID,
		UploadedAt:  time.Now().UTC(),
	}
}
