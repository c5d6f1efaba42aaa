package infra

import (
	"fmt"

	"enci/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (partial indexes, CHECK constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema and applies SQL patches.
// Also used by integration tests against throwaway databases.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Perfil{},
		&model.Grupo{},
		&model.Invitation{},
		&model.Referral{},
		&model.AuditLog{},
		&model.Notification{},
		&model.CuentaContable{},
		&model.Asiento{},
		&model.Transaccion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot fully handle on its own. Each statement uses IF NOT EXISTS / guarded
// DO-blocks so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Partial index for the docente dashboard query (open invitations only)
		{"partial index invitations active", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invitations_creator_active') THEN
    CREATE INDEX idx_invitations_creator_active
        ON invitations (creator_id)
        WHERE active = true;
  END IF;
END $$`},
		// Double-entry CHECK: a line may carry a debit or a credit, never both.
		// NOT VALID so it only constrains new rows; historical violations are
		// repaired by cmd/ledgerfix, after which VALIDATE CONSTRAINT can run.
		{"check transacciones debe/haber exclusivity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_transacciones_debe_haber') THEN
    ALTER TABLE transacciones
      ADD CONSTRAINT chk_transacciones_debe_haber
      CHECK (NOT (debe > 0 AND haber > 0)) NOT VALID;
  END IF;
END $$`},
		// Non-negative amounts
		{"check transacciones montos no negativos", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_transacciones_no_negativos') THEN
    ALTER TABLE transacciones
      ADD CONSTRAINT chk_transacciones_no_negativos
      CHECK (debe >= 0 AND haber >= 0);
  END IF;
END $$`},
		// Unread-notifications badge query
		{"partial index notifications unread", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_notifications_unread') THEN
    CREATE INDEX idx_notifications_unread
        ON notifications (recipient_id)
        WHERE unread = true;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
