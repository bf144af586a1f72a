package usecase

import (
	"github.com/xavierca1/lead-outreach/internal/entity"
)

const (
	ImportOptionNew = "new"
	ImportOptionAdd = "add"
)

// ColumnMapping is the user's explicit header choice per field. A value of
// SkipColumn means the field must not be mapped.
type ColumnMapping struct {
	BusinessEmail string `json:"businessEmail"`
	WebsiteURL    string `json:"websiteUrl"`
}

type ImportInput struct {
	UserID        string        `json:"userId" validate:"required"`
	FileName      string        `json:"fileName" validate:"required"`
	File          []byte        `json:"-"`
	Option        string        `json:"option" validate:"required,oneof=new add"`
	SheetName     string        `json:"sheetName" validate:"required_if=Option new,max=255"`
	TargetSheetID string        `json:"targetLeadFileId" validate:"required_if=Option add"`
	SignatureID   *string       `json:"signatureId"`
	Mapping       ColumnMapping `json:"mapping"`
}

type ImportOutput struct {
	ID               string                      `json:"id"`
	SheetName        string                      `json:"sheetName,omitempty"`
	RowCount         int                         `json:"rowCount"`
	TotalRows        int                         `json:"totalRows"`
	Rejected         int                         `json:"rejected"`
	RejectedByReason map[entity.RejectReason]int `json:"rejectedByReason"`
}

type RowQuery struct {
	Page      int    `json:"page" validate:"min=1"`
	PageSize  int    `json:"pageSize" validate:"min=1,max=500"`
	Search    string `json:"search" validate:"max=255"`
	SortBy    string `json:"sortBy" validate:"omitempty,oneof=rowIndex businessEmail websiteUrl emailStatus createdAt"`
	SortOrder string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
	HasEmail  *bool  `json:"hasEmail"`
	HasURL    *bool  `json:"hasUrl"`
}

type RowsPage struct {
	Rows  []*entity.LeadRow `json:"rows"`
	Total int               `json:"total"`
}

type NewRowInput struct {
	BusinessEmail *string `json:"businessEmail" validate:"omitempty,max=320"`
	WebsiteURL    *string `json:"websiteUrl" validate:"omitempty,max=2048"`
}

type UpdateRowInput struct {
	BusinessEmail *string `json:"businessEmail" validate:"omitempty,max=320"`
	WebsiteURL    *string `json:"websiteUrl" validate:"omitempty,max=2048"`
}

type RunActionInput struct {
	Action   string   `json:"action" validate:"required,oneof=send_mail"`
	RowIDs   []string `json:"rowIds" validate:"omitempty,dive,required"`
	RowCount int      `json:"rowCount" validate:"min=0"`
}

type RunActionOutput struct {
	JobID    string                         `json:"jobId"`
	State    entity.RunState                `json:"state"`
	Statuses map[string]entity.RunRowStatus `json:"statuses"`
}

type CallbackInput struct {
	Token  string `json:"-" validate:"required"`
	RowID  string `json:"rowId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=completed failed"`
}

type SheetInput struct {
	SheetName   string  `json:"sheetName" validate:"required,max=255"`
	SignatureID *string `json:"signatureId"`
}

type SheetPatch struct {
	SheetName   *string `json:"sheetName" validate:"omitempty,min=1,max=255"`
	SignatureID *string `json:"signatureId"`
}

type SignatureInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Content string `json:"content" validate:"required,max=65536"`
}

type SignaturePatch struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,max=65536"`
}
