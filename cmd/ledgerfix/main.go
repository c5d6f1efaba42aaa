// cmd/ledgerfix/main.go — One-shot batch that restores the double-entry
// invariant: splits every ledger line carrying both a debit and a credit
// into two single-sided lines. Idempotent; safe to re-run.
package main

import (
	"context"
	"os"
	"time"

	"enci/internal/config"
	"enci/internal/infra"
	"enci/internal/repository"
	"enci/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	asientoRepo := repository.NewAsientoRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	repair := service.NewLedgerRepairService(asientoRepo, auditRepo, cfg.LedgerFixBatchSize)

	start := time.Now()
	report, err := repair.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).
			Int("corregidas", report.Corregidas).
			Msg("ledger fix aborted")
	}

	log.Info().
		Int("escaneadas", report.Escaneadas).
		Int("corregidas", report.Corregidas).
		Int("omitidas", report.Omitidas).
		Str("monto_movido", report.MontoMovido.StringFixed(2)).
		Dur("elapsed", time.Since(start)).
		Msg("ledger fix completed")
}
