package usecase

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type ManageSheetsUseCase struct {
	Sheets     SheetRepository
	Rows       RowRepository
	Signatures SignatureRepository
}

func NewManageSheetsUseCase(sheets SheetRepository, rows RowRepository, signatures SignatureRepository) *ManageSheetsUseCase {
	return &ManageSheetsUseCase{Sheets: sheets, Rows: rows, Signatures: signatures}
}

func (uc *ManageSheetsUseCase) List(ctx context.Context, userID string) ([]*entity.LeadSheet, error) {
	sheets, err := uc.Sheets.List(ctx, userID)
	if err != nil {
		return nil, storageError("lead files", err)
	}
	if sheets == nil {
		sheets = []*entity.LeadSheet{}
	}
	return sheets, nil
}

func (uc *ManageSheetsUseCase) Get(ctx context.Context, userID, id string) (*entity.LeadSheet, error) {
	s, err := uc.Sheets.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storageError("lead file", err)
	}
	return s, nil
}

// Create makes an empty sheet for manual row entry.
func (uc *ManageSheetsUseCase) Create(ctx context.Context, userID string, in SheetInput) (*entity.LeadSheet, error) {
	in.SheetName = strings.TrimSpace(in.SheetName)
	in.SignatureID = clean(in.SignatureID)
	if err := check(in); err != nil {
		return nil, err
	}
	if err := uc.ensureSignature(ctx, userID, in.SignatureID); err != nil {
		return nil, err
	}

	s := entity.NewLeadSheet(userID, in.SheetName, "", in.SignatureID)
	if err := uc.Sheets.Create(ctx, s); err != nil {
		return nil, storageError("lead file", err)
	}
	return s, nil
}

// Update changes sheet metadata. An empty signatureId detaches the
// signature.
func (uc *ManageSheetsUseCase) Update(ctx context.Context, userID, id string, in SheetPatch) (*entity.LeadSheet, error) {
	if in.SheetName != nil {
		name := strings.TrimSpace(*in.SheetName)
		in.SheetName = &name
	}
	if err := check(in); err != nil {
		return nil, err
	}

	s, err := uc.Sheets.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storageError("lead file", err)
	}
	if in.SheetName != nil {
		s.SheetName = *in.SheetName
	}
	if in.SignatureID != nil {
		s.SignatureID = clean(in.SignatureID)
		if err := uc.ensureSignature(ctx, userID, s.SignatureID); err != nil {
			return nil, err
		}
	}

	if err := uc.Sheets.Update(ctx, s); err != nil {
		return nil, storageError("lead file", err)
	}
	return s, nil
}

// Delete removes the rows and then the sheet. The two steps are not atomic:
// if the second fails the sheet survives empty and the call can be retried.
func (uc *ManageSheetsUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.Sheets.FindByID(ctx, userID, id); err != nil {
		return storageError("lead file", err)
	}

	n, err := uc.Rows.DeleteBySheet(ctx, userID, id)
	if err != nil {
		return storageError("rows", err)
	}
	if err := uc.Sheets.Delete(ctx, userID, id); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"sheet_id": id, "rows_deleted": n}).
			Error("rows deleted but lead file was not")
		return storageError("lead file", err)
	}
	return nil
}

func (uc *ManageSheetsUseCase) ensureSignature(ctx context.Context, userID string, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := uc.Signatures.FindByID(ctx, userID, *id); err != nil {
		return storageError("signature", err)
	}
	return nil
}
