package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	"github.com/minutepro/iep-minutes-api/pkg/export"
	"github.com/minutepro/iep-minutes-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type reportComputer interface {
	Summary(ctx context.Context, window models.Window) (*dto.TeamSummaryResponse, bool, error)
	MonthGoalSeries(ctx context.Context, month string) (*dto.GoalSeriesResponse, bool, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Format       models.ReportFormat
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	reports reportComputer
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportComputer, fileStore fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		reports: reports,
		storage: fileStore,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the dataset for the job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}
	return &ExportResult{RelativePath: relPath, Format: job.Params.Format}, nil
}

// SignDownload produces a signed download token for a stored export.
func (s *ExportService) SignDownload(jobID, relPath string) (string, time.Time, error) {
	return s.signer.Generate(jobID, relPath)
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl, defaulting to the configured
// result TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", strings.ToLower(string(job.Type)), timestamp, job.Params.Format)
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeSummary:
		return s.buildSummaryDataset(ctx, job.Params)
	case models.ReportTypeGoalSeries:
		return s.buildGoalSeriesDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildSummaryDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	window, err := parseWindowParams(params)
	if err != nil {
		return export.Dataset{}, "", err
	}
	summary, _, err := s.reports.Summary(ctx, window)
	if err != nil {
		return export.Dataset{}, "", err
	}

	rows := make([]map[string]string, 0, len(summary.PerStaff)+1)
	for _, bucket := range summary.PerStaff {
		rows = append(rows, map[string]string{
			"Staff":   bucket.Name,
			"Minutes": fmt.Sprintf("%d", bucket.Minutes),
		})
	}
	rows = append(rows, map[string]string{
		"Staff":   "Total",
		"Minutes": fmt.Sprintf("%d", summary.GrandTotal),
	})

	dataset := export.Dataset{Headers: []string{"Staff", "Minutes"}, Rows: rows}
	title := fmt.Sprintf("Service Minutes %s to %s", summary.Window.Start, summary.Window.End)
	return dataset, title, nil
}

func (s *ExportService) buildGoalSeriesDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	series, _, err := s.reports.MonthGoalSeries(ctx, params.Month)
	if err != nil {
		return export.Dataset{}, "", err
	}

	headers := []string{"Week"}
	for _, subject := range models.Subjects() {
		headers = append(headers, string(subject))
	}
	rows := make([]map[string]string, 0, len(series.Rows))
	for _, row := range series.Rows {
		record := map[string]string{"Week": row.Week}
		for _, subject := range models.Subjects() {
			record[string(subject)] = fmt.Sprintf("%d", row.Counts[subject])
		}
		rows = append(rows, record)
	}

	dataset := export.Dataset{Headers: headers, Rows: rows}
	title := fmt.Sprintf("Weekly Goal Attainment %s", series.Month)
	return dataset, title, nil
}

func parseWindowParams(params models.ReportJobParams) (models.Window, error) {
	if params.Start == "" || params.End == "" {
		return models.Window{}, nil
	}
	start, err := time.Parse(models.DateLayout, params.Start)
	if err != nil {
		return models.Window{}, fmt.Errorf("invalid start date %q", params.Start)
	}
	end, err := time.Parse(models.DateLayout, params.End)
	if err != nil {
		return models.Window{}, fmt.Errorf("invalid end date %q", params.End)
	}
	return models.Window{Start: start, End: end}, nil
}
