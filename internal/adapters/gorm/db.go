package gorm

import (
	"fmt"
	"strings"
	"time"

	"plant-sync/internal/core/plants"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"
)

// New opens the database named by dsn and runs migrations.
// postgres:// URLs and key=value DSNs go to PostgreSQL; anything else is a SQLite path
// (":memory:" included).
func New(dsn string, lg zerolog.Logger) (*gorm.DB, error) {
	lg = lg.With().Str("adapter", "gorm").Logger()

	// Configure GORM's logger to use Zerolog
	gormLogger := gormlog.New(
		&lg,
		gormlog.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlog.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dialector, embedded := dialectorFor(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	if embedded {
		// SQLite allows a single writer; ":memory:" also lives and dies with its connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("gorm sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&plants.Plant{},
		&plants.ActiveEquipment{},
		&plants.HistoryEquipment{},
		&plants.SerialNo{},
		&plants.Item{},
	); err != nil {
		return nil, fmt.Errorf("gorm migrate: %w", err)
	}
	lg.Info().Str("dialect", dialector.Name()).Msg("database migration successful")

	return db, nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.Open(dsn), false
	default:
		return sqlite.Open(dsn), true
	}
}
