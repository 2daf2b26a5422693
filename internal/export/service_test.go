package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/paper-grader/internal/llm"
	"github.com/joseph-ayodele/paper-grader/internal/repository"
)

func TestExportReviewsXLSX(t *testing.T) {
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	papers := repository.NewPaperRepository(db, nil)
	reviews := repository.NewReviewRepository(db, nil)

	p1, err := papers.Create(ctx, "/papers/one.pdf", "pdf")
	require.NoError(t, err)
	p2, err := papers.Create(ctx, "/papers/two.docx", "docx")
	require.NoError(t, err)

	_, err = reviews.InsertRecords(ctx, p1.ID, []llm.ReviewRecord{{
		Name:        "First Paper",
		Marks:       88,
		Remarks:     []string{"clear", "concise"},
		Suggestions: []string{"add figures"},
		Errors:      []string{},
	}}, []byte(`[]`))
	require.NoError(t, err)
	_, err = reviews.InsertRecords(ctx, p2.ID, []llm.ReviewRecord{{
		Name:        "Second Paper",
		Marks:       55,
		Remarks:     []string{},
		Suggestions: []string{},
		Errors:      []string{"broken citation"},
	}}, []byte(`[]`))
	require.NoError(t, err)

	svc := NewService(reviews, papers, nil)

	t.Run("all reviews", func(t *testing.T) {
		data, err := svc.ExportReviewsXLSX(ctx, nil)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Reviews")
		require.NoError(t, err)
		require.Len(t, rows, 3) // header + two reviews
		require.Equal(t, []string{
			"Graded At", "Paper/File Path", "Name", "Marks", "Remarks", "Suggestions", "Errors",
		}, rows[0])

		names := map[string]bool{rows[1][2]: true, rows[2][2]: true}
		require.True(t, names["First Paper"])
		require.True(t, names["Second Paper"])
	})

	t.Run("single paper", func(t *testing.T) {
		data, err := svc.ExportReviewsXLSX(ctx, &p1.ID)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Reviews")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "First Paper", rows[1][2])
		require.Equal(t, "/papers/one.pdf", rows[1][1])
		require.Equal(t, "88", rows[1][3])
		require.Equal(t, "clear\nconcise", rows[1][4])
	})

	t.Run("no reviews", func(t *testing.T) {
		p3, err := papers.Create(ctx, "/papers/empty.txt", "txt")
		require.NoError(t, err)

		data, err := svc.ExportReviewsXLSX(ctx, &p3.ID)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Reviews")
		require.NoError(t, err)
		require.Len(t, rows, 1) // header only
	})
}
