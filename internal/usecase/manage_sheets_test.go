package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

func TestCreateEmptySheet(t *testing.T) {
	ctx := context.Background()
	sheets, sigs := new(MockSheetRepository), new(MockSignatureRepository)
	uc := NewManageSheetsUseCase(sheets, new(MockRowRepository), sigs)

	sigs.On("FindByID", ctx, "user-1", "sig-1").Return(&entity.Signature{ID: "sig-1"}, nil)
	sheets.On("Create", ctx, mock.Anything).Return(nil)

	s, err := uc.Create(ctx, "user-1", SheetInput{SheetName: " Manual ", SignatureID: strPtr("sig-1")})

	require.NoError(t, err)
	assert.Equal(t, "Manual", s.SheetName)
	assert.Equal(t, "sig-1", *s.SignatureID)
	assert.Empty(t, s.FileExt)
}

func TestUpdateSheetDetachesSignature(t *testing.T) {
	ctx := context.Background()
	sheets, sigs := new(MockSheetRepository), new(MockSignatureRepository)
	uc := NewManageSheetsUseCase(sheets, new(MockRowRepository), sigs)
	existing := &entity.LeadSheet{ID: "sheet-1", UserID: "user-1", SheetName: "Old", SignatureID: strPtr("sig-1")}

	sheets.On("FindByID", ctx, "user-1", "sheet-1").Return(existing, nil)
	sheets.On("Update", ctx, existing).Return(nil)

	s, err := uc.Update(ctx, "user-1", "sheet-1", SheetPatch{SheetName: strPtr("New"), SignatureID: strPtr("")})

	require.NoError(t, err)
	assert.Equal(t, "New", s.SheetName)
	assert.Nil(t, s.SignatureID)
	sigs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSheetRejectsBlankName(t *testing.T) {
	sheets := new(MockSheetRepository)
	uc := NewManageSheetsUseCase(sheets, new(MockRowRepository), new(MockSignatureRepository))

	_, err := uc.Update(context.Background(), "user-1", "sheet-1", SheetPatch{SheetName: strPtr("   ")})

	assert.True(t, IsDomainError(err))
	sheets.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteSheetRemovesRowsFirst(t *testing.T) {
	ctx := context.Background()
	sheets, rows := new(MockSheetRepository), new(MockRowRepository)
	uc := NewManageSheetsUseCase(sheets, rows, new(MockSignatureRepository))

	var order []string
	sheets.On("FindByID", ctx, "user-1", "sheet-1").Return(&entity.LeadSheet{ID: "sheet-1"}, nil)
	rows.On("DeleteBySheet", ctx, "user-1", "sheet-1").Run(func(mock.Arguments) { order = append(order, "rows") }).Return(12, nil)
	sheets.On("Delete", ctx, "user-1", "sheet-1").Run(func(mock.Arguments) { order = append(order, "sheet") }).Return(nil)

	require.NoError(t, uc.Delete(ctx, "user-1", "sheet-1"))
	assert.Equal(t, []string{"rows", "sheet"}, order)
}

func TestDeleteSheetStopsWhenRowsFail(t *testing.T) {
	ctx := context.Background()
	sheets, rows := new(MockSheetRepository), new(MockRowRepository)
	uc := NewManageSheetsUseCase(sheets, rows, new(MockSignatureRepository))

	sheets.On("FindByID", ctx, "user-1", "sheet-1").Return(&entity.LeadSheet{ID: "sheet-1"}, nil)
	rows.On("DeleteBySheet", ctx, "user-1", "sheet-1").Return(0, errors.New("timeout"))

	err := uc.Delete(ctx, "user-1", "sheet-1")

	assert.True(t, IsTechnicalError(err))
	sheets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestListSheetsNeverNil(t *testing.T) {
	ctx := context.Background()
	sheets := new(MockSheetRepository)
	uc := NewManageSheetsUseCase(sheets, new(MockRowRepository), new(MockSignatureRepository))
	sheets.On("List", ctx, "user-1").Return(nil, nil)

	out, err := uc.List(ctx, "user-1")

	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSignatureLifecycle(t *testing.T) {
	ctx := context.Background()
	sigs := new(MockSignatureRepository)
	uc := NewManageSignaturesUseCase(sigs)

	sigs.On("Create", ctx, mock.Anything).Return(nil)
	s, err := uc.Create(ctx, "user-1", SignatureInput{Name: " Default ", Content: "<p>Ana</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Default", s.Name)

	sigs.On("FindByID", ctx, "user-1", s.ID).Return(s, nil)
	sigs.On("Update", ctx, s).Return(nil)
	s, err = uc.Update(ctx, "user-1", s.ID, SignaturePatch{Content: strPtr("<p>Bia</p>")})
	require.NoError(t, err)
	assert.Equal(t, "<p>Bia</p>", s.Content)
	assert.Equal(t, "Default", s.Name)

	sigs.On("Delete", ctx, "user-1", "missing").Return(entity.ErrNotFound)
	err = uc.Delete(ctx, "user-1", "missing")
	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeNotFound, domainErr.Code)
}

func TestCreateSignatureRequiresContent(t *testing.T) {
	sigs := new(MockSignatureRepository)
	uc := NewManageSignaturesUseCase(sigs)

	_, err := uc.Create(context.Background(), "user-1", SignatureInput{Name: "x"})

	assert.True(t, IsDomainError(err))
	sigs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
