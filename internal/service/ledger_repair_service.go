package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"enci/internal/model"
	"enci/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepairService restores the double-entry invariant on historical
// data: any line carrying both a debit and a credit is split into two
// single-sided lines and the original is removed.
//
// The scan uses keyset pagination so arbitrarily large ledgers are processed
// in constant memory, and each line is repaired in its own short transaction
// under a row lock, so the batch can run against a live system and be
// re-executed at any time (already-split lines no longer match the scan).
type LedgerRepairService interface {
	Run(ctx context.Context) (*LedgerRepairReport, error)
}

// LedgerRepairReport summarizes one repair run.
type LedgerRepairReport struct {
	Escaneadas  int
	Corregidas  int
	Omitidas    int
	MontoMovido decimal.Decimal
}

type ledgerRepairService struct {
	repo      repository.AsientoRepository
	audit     repository.AuditRepository
	batchSize int
}

func NewLedgerRepairService(repo repository.AsientoRepository, audit repository.AuditRepository, batchSize int) LedgerRepairService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &ledgerRepairService{repo: repo, audit: audit, batchSize: batchSize}
}

func (s *ledgerRepairService) Run(ctx context.Context) (*LedgerRepairReport, error) {
	report := &LedgerRepairReport{MontoMovido: decimal.Zero}
	var afterID uint

	for {
		lineas, err := s.repo.FindViolaciones(ctx, afterID, s.batchSize)
		if err != nil {
			return report, err
		}
		if len(lineas) == 0 {
			break
		}

		for i := range lineas {
			linea := &lineas[i]
			afterID = linea.ID
			report.Escaneadas++

			if err := s.repararLinea(ctx, linea.ID); err != nil {
				if errors.Is(err, errLineaYaCorregida) {
					report.Omitidas++
					continue
				}
				return report, fmt.Errorf("línea %d: %w", linea.ID, err)
			}
			report.Corregidas++
			report.MontoMovido = report.MontoMovido.Add(linea.Debe).Add(linea.Haber)
		}

		if len(lineas) < s.batchSize {
			break
		}
	}

	log.Info().
		Int("escaneadas", report.Escaneadas).
		Int("corregidas", report.Corregidas).
		Int("omitidas", report.Omitidas).
		Msg("ledger repair finished")

	if report.Escaneadas > 0 {
		if err := s.audit.Create(ctx, nil, &model.AuditLog{
			Action: model.AuditLedgerFixRun,
			Description: fmt.Sprintf(
				"Corrección de libro: %d líneas divididas, %d omitidas, monto %s",
				report.Corregidas, report.Omitidas, report.MontoMovido.StringFixed(2)),
		}); err != nil {
			return report, err
		}
	}
	return report, nil
}

// errLineaYaCorregida: another run (or writer) fixed the line between the
// scan and the lock.
var errLineaYaCorregida = errors.New("línea ya corregida")

// repararLinea re-reads the line under FOR UPDATE, re-checks the violation,
// inserts the two single-sided replacements and deletes the original, all in
// one transaction.
func (s *ledgerRepairService) repararLinea(ctx context.Context, id uint) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		linea, err := s.repo.LockLinea(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errLineaYaCorregida
			}
			return err
		}
		if !linea.Debe.IsPositive() || !linea.Haber.IsPositive() {
			return errLineaYaCorregida
		}

		debe := &model.Transaccion{
			AsientoID:    linea.AsientoID,
			CuentaID:     linea.CuentaID,
			DetalleLinea: detalleCorregido(linea.DetalleLinea, "Debe"),
			Debe:         linea.Debe,
			Haber:        decimal.Zero,
		}
		haber := &model.Transaccion{
			AsientoID:    linea.AsientoID,
			CuentaID:     linea.CuentaID,
			DetalleLinea: detalleCorregido(linea.DetalleLinea, "Haber"),
			Debe:         decimal.Zero,
			Haber:        linea.Haber,
		}
		if err := s.repo.CreateTransaccion(ctx, tx, debe); err != nil {
			return err
		}
		if err := s.repo.CreateTransaccion(ctx, tx, haber); err != nil {
			return err
		}
		return s.repo.DeleteTransaccion(ctx, tx, linea.ID)
	})
}

func detalleCorregido(original *string, lado string) *string {
	base := ""
	if original != nil {
		base = strings.TrimSpace(*original)
	}
	sufijo := "(" + lado + " - corregido)"
	detalle := sufijo
	if base != "" {
		detalle = base + " " + sufijo
	}
	return &detalle
}
