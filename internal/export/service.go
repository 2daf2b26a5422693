package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/paper-grader/internal/entity"
	"github.com/joseph-ayodele/paper-grader/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	reviewsRepo repository.ReviewRepository
	papersRepo  repository.PaperRepository
	logger      *slog.Logger
}

func NewService(reviewsRepo repository.ReviewRepository, papersRepo repository.PaperRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reviewsRepo: reviewsRepo, papersRepo: papersRepo, logger: logger}
}

// ExportReviewsXLSX returns an XLSX workbook (as bytes) for graded reviews.
// If paperID is non-nil only that paper's reviews are exported, otherwise all.
func (s *Service) ExportReviewsXLSX(ctx context.Context, paperID *uuid.UUID) ([]byte, error) {
	start := time.Now()

	var (
		rows []*entity.Review
		err  error
	)
	if paperID != nil {
		rows, err = s.reviewsRepo.ListByPaper(ctx, *paperID)
	} else {
		rows, err = s.reviewsRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Reviews"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Graded At",
		"Paper/File Path",
		"Name",
		"Marks",
		"Remarks",
		"Suggestions",
		"Errors",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range rows {
		// Resolve source path for the review's paper
		sourcePath := ""
		if paper, err := s.papersRepo.GetByID(ctx, r.PaperID); err == nil && paper != nil {
			sourcePath = paper.SourcePath
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.CreatedAt.Format("2006-01-02 15:04"))
		write(2, sourcePath)
		write(3, r.Name)
		write(4, r.Marks)
		write(5, strings.Join(r.Remarks, "\n"))
		write(6, strings.Join(r.Suggestions, "\n"))
		write(7, strings.Join(r.Errors, "\n"))
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.reviews.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
