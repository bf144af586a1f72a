package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type ManageSignaturesUseCase struct {
	Signatures SignatureRepository
}

func NewManageSignaturesUseCase(signatures SignatureRepository) *ManageSignaturesUseCase {
	return &ManageSignaturesUseCase{Signatures: signatures}
}

func (uc *ManageSignaturesUseCase) List(ctx context.Context, userID string) ([]*entity.Signature, error) {
	out, err := uc.Signatures.List(ctx, userID)
	if err != nil {
		return nil, storageError("signatures", err)
	}
	if out == nil {
		out = []*entity.Signature{}
	}
	return out, nil
}

func (uc *ManageSignaturesUseCase) Create(ctx context.Context, userID string, in SignatureInput) (*entity.Signature, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return nil, err
	}
	s := entity.NewSignature(userID, in.Name, in.Content)
	if err := uc.Signatures.Create(ctx, s); err != nil {
		return nil, storageError("signature", err)
	}
	return s, nil
}

func (uc *ManageSignaturesUseCase) Update(ctx context.Context, userID, id string, in SignaturePatch) (*entity.Signature, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := check(in); err != nil {
		return nil, err
	}

	s, err := uc.Signatures.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storageError("signature", err)
	}
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Content != nil {
		s.Content = *in.Content
	}
	s.UpdatedAt = time.Now().UTC()

	if err := uc.Signatures.Update(ctx, s); err != nil {
		return nil, storageError("signature", err)
	}
	return s, nil
}

func (uc *ManageSignaturesUseCase) Delete(ctx context.Context, userID, id string) error {
	if err := uc.Signatures.Delete(ctx, userID, id); err != nil {
		return storageError("signature", err)
	}
	return nil
}
