package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/shiftops/roster-api/internal/models"
	"github.com/shiftops/roster-api/internal/rota"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
	"github.com/shiftops/roster-api/pkg/export"
)

type exportShiftRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Shift, error)
}

type exportPersonRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Person, error)
}

type exportArchive interface {
	Save(filename string, data []byte) (string, error)
}

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document and its transport metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders weekly rosters as downloadable documents.
type ExportService struct {
	shifts  exportShiftRepository
	persons exportPersonRepository
	archive exportArchive
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService instantiates ExportService. The archive may be nil; then
// documents are only streamed, never kept.
func NewExportService(shifts exportShiftRepository, persons exportPersonRepository, archive exportArchive, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		shifts:  shifts,
		persons: persons,
		archive: archive,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// WeeklyRoster renders the full roster for the week starting at weekStart.
func (s *ExportService) WeeklyRoster(ctx context.Context, weekStart string, format ExportFormat) (*ExportResult, error) {
	anchor, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "week_start must be YYYY-MM-DD")
	}
	anchorDay := rota.Day(anchor)

	shifts, err := s.shifts.ListBetween(ctx, anchorDay, rota.WeekEnd(anchorDay))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly roster")
	}

	dataset, err := s.buildDataset(ctx, shifts)
	if err != nil {
		return nil, err
	}

	stamp := anchorDay.Format(dateLayout)
	var result *ExportResult
	switch format {
	case ExportPDF:
		title := fmt.Sprintf("Weekly roster %s", stamp)
		content, err := s.pdf.Render(*dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		result = &ExportResult{
			FileName:    fmt.Sprintf("roster-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}
	case ExportCSV, "":
		content, err := s.csv.Render(*dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		result = &ExportResult{
			FileName:    fmt.Sprintf("roster-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	if s.archive != nil {
		if rel, err := s.archive.Save(result.FileName, result.Content); err != nil {
			s.logger.Warn("failed to archive export", zap.String("file", result.FileName), zap.Error(err))
		} else {
			s.logger.Info("export archived", zap.String("path", rel))
		}
	}
	return result, nil
}

func (s *ExportService) buildDataset(ctx context.Context, shifts []models.Shift) (*export.Dataset, error) {
	seen := make(map[string]struct{}, len(shifts))
	ids := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		if _, ok := seen[shift.PersonID]; ok {
			continue
		}
		seen[shift.PersonID] = struct{}{}
		ids = append(ids, shift.PersonID)
	}

	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		persons, err := s.persons.FindByIDs(ctx, ids)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve persons for export")
		}
		for _, p := range persons {
			names[p.ID] = p.FullName
		}
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		return shifts[i].StartTime < shifts[j].StartTime
	})

	dataset := &export.Dataset{
		Headers: []string{"Date", "Day", "Person", "Start", "End", "Type", "Position", "Notes"},
		Rows:    make([]map[string]string, 0, len(shifts)),
	}
	for _, shift := range shifts {
		name := names[shift.PersonID]
		if name == "" {
			name = shift.PersonID
		}
		position := ""
		if shift.Position != nil {
			position = *shift.Position
		}
		notes := ""
		if shift.Notes != nil {
			notes = *shift.Notes
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":     shift.Date.Format(dateLayout),
			"Day":      shift.Date.Format("Monday"),
			"Person":   name,
			"Start":    shift.StartTime,
			"End":      shift.EndTime,
			"Type":     string(shift.Kind),
			"Position": position,
			"Notes":    notes,
		})
	}
	return dataset, nil
}
