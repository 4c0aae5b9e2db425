package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/ens-screening/backend/internal/apperrors"
	"github.com/ens-screening/backend/internal/screening/country"
	"github.com/ens-screening/backend/internal/screening/model"
)

// maxUploadRows caps a single batch; a larger sheet rejects the whole upload.
const maxUploadRows = 100

// IngestionService turns an uploaded spreadsheet into canonical UploadRecords
// and seeds the session status row. The whole batch is one transaction: any
// invalid row aborts the upload with no partial writes.
type IngestionService struct {
	db     *gorm.DB
	status *StatusService
}

func NewIngestionService(db *gorm.DB, status *StatusService) *IngestionService {
	return &IngestionService{db: db, status: status}
}

// ProcessUpload parses the spreadsheet, validates and normalizes every row,
// inserts the batch under a fresh session_id and seeds the session screening
// status. The country lookup is scoped to this call.
func (s *IngestionService) ProcessUpload(ctx context.Context, file io.Reader, userID string, lookup country.Lookup) (*model.IngestResult, error) {
	rows, err := parseSheet(file)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: the uploaded file contains no data rows", apperrors.ErrValidation)
	}
	if len(rows) > maxUploadRows {
		return nil, fmt.Errorf("%w: only %d rows are allowed, please upload a valid file", apperrors.ErrValidation, maxUploadRows)
	}

	sessionID := uuid.NewString()
	records := make([]model.UploadRecord, 0, len(rows))
	for i, row := range rows {
		record, err := buildRecord(row, sessionID, userID, lookup)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, *record)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to insert supplier rows: %w", err)
		}

		inProgress := model.StatusInProgress
		completed := model.StatusCompleted
		notStarted := model.StatusNotStarted
		seed := model.SessionStatusUpdate{
			OverallStatus:                &inProgress,
			ListUploadStatus:             &completed,
			SupplierNameValidationStatus: &notStarted,
			ScreeningAnalysisStatus:      &notStarted,
			ProcessStatus:                &notStarted,
		}
		if err := s.status.UpsertSessionStatusInTx(tx, sessionID, seed); err != nil {
			return fmt.Errorf("failed to seed session screening status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("supplier list ingested",
		"session_id", sessionID,
		"user_id", userID,
		"rows", len(records),
	)
	return &model.IngestResult{
		RowsInserted: int64(len(records)),
		SessionID:    sessionID,
	}, nil
}

// parseSheet reads the first sheet of an xlsx file. The header row supplies
// the column keys; short rows are padded with empty cells.
func parseSheet(file io.Reader) ([]map[string]string, error) {
	book, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read spreadsheet: %v", apperrors.ErrValidation, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: the workbook has no sheets", apperrors.ErrValidation)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read sheet %q: %v", apperrors.ErrValidation, sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: the sheet has no data rows", apperrors.ErrValidation)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	parsed := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[key] = value
		}
		parsed = append(parsed, record)
	}
	return parsed, nil
}

// buildRecord produces one canonical UploadRecord: verbatim and
// pre-normalization copies of the input, a normalized country code on the
// uploaded set, and a fresh ens_id.
func buildRecord(row map[string]string, sessionID, userID string, lookup country.Lookup) (*model.UploadRecord, error) {
	fields := supplierFieldsFromRow(row)

	unmodified := fields
	fields.Country = lookup.Code(fields.Country)

	missing := make([]string, 0, 3)
	if fields.Name == "" {
		missing = append(missing, "name")
	}
	if fields.Country == "" {
		missing = append(missing, "country")
	}
	if fields.NationalID == "" {
		missing = append(missing, "national_id")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: name, country and national_id are mandatory, missing %s",
			apperrors.ErrValidation, strings.Join(missing, ", "))
	}

	return &model.UploadRecord{
		EnsID:                    uuid.NewString(),
		SessionID:                sessionID,
		UserID:                   userID,
		Uploaded:                 fields,
		Unmodified:               unmodified,
		UploadedExternalVendorID: row["external_vendor_id"],
		ValidationStatus:         model.ValidationStatusPending,
		OrbisMatchedStatus:       model.OrbisMatchStatusPending,
		FinalValidationStatus:    model.FinalValidatedStatusPending,
		FinalStatus:              model.FinalStatusPending,
		DuplicateInSession:       model.DuplicateInSessionUnique,
	}, nil
}

func supplierFieldsFromRow(row map[string]string) model.SupplierFields {
	return model.SupplierFields{
		Name:              row["name"],
		NameInternational: row["name_international"],
		Address:           row["address"],
		Postcode:          row["postcode"],
		City:              row["city"],
		Country:           row["country"],
		PhoneOrFax:        row["phone_or_fax"],
		EmailOrWebsite:    row["email_or_website"],
		NationalID:        row["national_id"],
		State:             row["state"],
		AddressType:       row["address_type"],
	}
}
