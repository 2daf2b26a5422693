package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/paper-grader/internal/common"
	"github.com/joseph-ayodele/paper-grader/internal/export"
	"github.com/joseph-ayodele/paper-grader/internal/llm/gemini"
	"github.com/joseph-ayodele/paper-grader/internal/pipeline"
	repo "github.com/joseph-ayodele/paper-grader/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem = flag.Bool("inmem", false, "use in-memory SQLite database")
		out   = flag.String("out", "", "optional XLSX output path for this paper's reviews")
		quiet = flag.Bool("quiet", false, "suppress logs, print only the result envelope")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		printError("usage: grade-paper [flags] <document-path>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	level := slog.LevelInfo
	if *quiet {
		level = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		printError("Error: GEMINI_API_KEY env var is required\n")
		os.Exit(2)
	}

	dsn := cfg.Database.DSN
	if *inmem {
		dsn = ":memory:"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := repo.Open(ctx, repo.Config{
		DSN:         dsn,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, logger)

	grader := gemini.NewClient(gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	papersRepo := repo.NewPaperRepository(db, logger)
	reviewsRepo := repo.NewReviewRepository(db, logger)
	proc := pipeline.NewProcessor(logger, grader, papersRepo, reviewsRepo)

	start := time.Now()
	paperID, records, err := proc.GradePaper(ctx, path)

	// Envelope on stdout either way; exit code signals failure for scripts.
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err != nil {
		_ = enc.Encode(map[string]any{"success": false, "error": err.Error()})
		os.Exit(1)
	}
	_ = enc.Encode(map[string]any{"success": true, "records": records})
	logger.Info("graded", "paper_id", paperID, "records", len(records), "elapsed_ms", time.Since(start).Milliseconds())

	if *out != "" {
		exporter := export.NewService(reviewsRepo, papersRepo, logger)
		b, err := exporter.ExportReviewsXLSX(ctx, &paperID)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, b, 0644); err != nil {
			logger.Error("write output file", "error", err)
			os.Exit(1)
		}
		logger.Info("exported", "path", *out)
	}
}
