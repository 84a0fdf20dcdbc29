package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/stemsi/exam-platform/internal/config"
	"github.com/stemsi/exam-platform/internal/database"
	"github.com/stemsi/exam-platform/internal/export"
	"github.com/stemsi/exam-platform/internal/logger"
	"github.com/stemsi/exam-platform/internal/repository"
)

func main() {
	var out string
	flag.StringVar(&out, "out", "attempts-"+time.Now().Format("20060102")+".xlsx", "Output workbook path")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rows, err := repository.NewExamAttemptRepository(pool).ListForExport(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load attempts")
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("Failed to create output file")
	}
	defer f.Close()

	if err := export.WriteAttempts(f, rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to write workbook")
	}

	log.Info().Int("attempts", len(rows)).Str("path", out).Msg("Export complete")
}
