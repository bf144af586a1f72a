package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/spreadsheet"
)

// InsertChunkSize bounds the number of rows sent to storage per insert.
const InsertChunkSize = 100

type ImportLeadsUseCase struct {
	Sheets     SheetRepository
	Rows       RowRepository
	Signatures SignatureRepository
	Parser     SpreadsheetParser
}

func NewImportLeadsUseCase(
	sheets SheetRepository,
	rows RowRepository,
	signatures SignatureRepository,
	parser SpreadsheetParser,
) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{
		Sheets:     sheets,
		Rows:       rows,
		Signatures: signatures,
		Parser:     parser,
	}
}

// ParseHeaders returns the header row of an upload so the caller can build
// a column mapping.
func (uc *ImportLeadsUseCase) ParseHeaders(file []byte, fileName string) ([]string, error) {
	if _, err := spreadsheet.Extension(fileName); err != nil {
		return nil, validationError(err.Error())
	}
	res, err := uc.parse(file, fileName)
	if err != nil {
		return nil, err
	}
	return res.Headers, nil
}

// Execute runs the import: validate, parse, resolve columns, classify, then
// append accepted rows in chunks. The sheet for option "new" is created only
// after the file parsed. A failing chunk aborts the import; earlier chunks
// stay persisted.
func (uc *ImportLeadsUseCase) Execute(ctx context.Context, input ImportInput) (*ImportOutput, error) {
	input.SheetName = strings.TrimSpace(input.SheetName)
	if input.SignatureID != nil && strings.TrimSpace(*input.SignatureID) == "" {
		input.SignatureID = nil
	}

	ext, err := spreadsheet.Extension(input.FileName)
	if err != nil {
		return nil, validationError(err.Error())
	}
	if err := check(input); err != nil {
		return nil, err
	}

	var target *entity.LeadSheet
	if input.Option == ImportOptionAdd {
		target, err = uc.Sheets.FindByID(ctx, input.UserID, input.TargetSheetID)
		if err != nil {
			return nil, storageError("lead file", err)
		}
	}
	if input.SignatureID != nil {
		if _, err := uc.Signatures.FindByID(ctx, input.UserID, *input.SignatureID); err != nil {
			return nil, storageError("signature", err)
		}
	}

	parsed, err := uc.parse(input.File, input.FileName)
	if err != nil {
		return nil, err
	}

	emailIdx := ResolveHeaderIndex(parsed.Headers, BusinessEmailAliases, input.Mapping.BusinessEmail)
	urlIdx := ResolveHeaderIndex(parsed.Headers, WebsiteURLAliases, input.Mapping.WebsiteURL)

	if target == nil {
		target = entity.NewLeadSheet(input.UserID, input.SheetName, ext, input.SignatureID)
		if err := uc.Sheets.Create(ctx, target); err != nil {
			return nil, storageError("lead file", err)
		}
	}

	out := &ImportOutput{
		ID:               target.ID,
		TotalRows:        len(parsed.Rows),
		RejectedByReason: map[entity.RejectReason]int{},
	}
	if input.Option == ImportOptionNew {
		out.SheetName = target.SheetName
	}

	accepted := make([]*entity.LeadRow, 0, len(parsed.Rows))
	for _, raw := range parsed.Rows {
		email := spreadsheet.Cell(raw, emailIdx)
		site := spreadsheet.Cell(raw, urlIdx)

		verdict := entity.ClassifyRow(email, site)
		if !verdict.Eligible {
			out.RejectedByReason[*verdict.Reason]++
			out.Rejected++
			continue
		}
		accepted = append(accepted, entity.NewLeadRow(target, email, site))
	}

	log := logrus.WithFields(logrus.Fields{
		"user_id":  input.UserID,
		"sheet_id": target.ID,
		"option":   input.Option,
	})

	for start := 0; start < len(accepted); start += InsertChunkSize {
		end := min(start+InsertChunkSize, len(accepted))
		if err := uc.Rows.AppendRows(ctx, target.ID, accepted[start:end]); err != nil {
			log.WithError(err).WithField("inserted", start).Error("import aborted on chunk insert")
			return nil, &TechnicalError{
				Code:    CodeStorage,
				Message: "failed to save imported rows",
				Details: fmt.Sprintf("%d of %d rows were saved before the failure", start, len(accepted)),
				Err:     err,
			}
		}
		out.RowCount = end
	}

	log.WithFields(logrus.Fields{
		"total":    out.TotalRows,
		"accepted": out.RowCount,
		"rejected": out.Rejected,
	}).Info("lead file imported")

	return out, nil
}

func (uc *ImportLeadsUseCase) parse(file []byte, fileName string) (*spreadsheet.Result, error) {
	res, err := uc.Parser.Parse(file, fileName)
	if err == nil {
		return res, nil
	}

	var perr *spreadsheet.ParseError
	if errors.As(err, &perr) {
		return nil, &DomainError{Code: CodeParse, Message: "could not read the uploaded file"}
	}
	if errors.Is(err, spreadsheet.ErrUnsupportedExtension) {
		return nil, validationError(err.Error())
	}
	return nil, &DomainError{Code: CodeParse, Message: err.Error()}
}
