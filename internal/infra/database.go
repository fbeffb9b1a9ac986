package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches GORM
// cannot express (partial indexes over soft-deleted rows, etc.).
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

// RunMigrations applies AutoMigrate plus the schema patches. Shared with the
// integration tests so containers start from the same schema as production.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Lider{},
		&model.Usuario{},
		&model.PuestoVotacion{},
		&model.Programa{},
		&model.SedePrograma{},
		&model.TipoVinculacion{},
		&model.Votacion{},
		&model.Confirmacion{},
		&model.StatusLog{},
		&model.Auditoria{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL AutoMigrate cannot produce. Each
// statement is safe to re-run on an already patched database.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// The duplicate engine orders rows by (created_at, id) per cedula.
		`CREATE INDEX IF NOT EXISTS idx_votaciones_cedula_created
		     ON votaciones (cedula, created_at, id)`,
		// Planilla listings and the MAX(planilla)+1 sequencer.
		`CREATE INDEX IF NOT EXISTS idx_votaciones_planilla
		     ON votaciones (planilla) WHERE planilla IS NOT NULL`,
		// The duplicates report only scans flagged rows.
		`CREATE INDEX IF NOT EXISTS idx_votaciones_duplicadas
		     ON votaciones (leader_id) WHERE is_duplicate = true`,
		// Audit trail lookups by record.
		`CREATE INDEX IF NOT EXISTS idx_auditorias_record
		     ON auditorias (record_id, created_at)`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
