package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staff-portal/internal/config"
)

// OpenGorm connects to the database named by cfg.DBDriver.
func OpenGorm(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dial = sqlite.Open(cfg.SQLitePath)
	case "mysql":
		dial = mysql.Open(cfg.MySQLDSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return OpenGormWithDialector(dial, log)
}

// OpenGormWithDialector opens gorm over dial, tunes the pool and pings.
func OpenGormWithDialector(dial gorm.Dialector, log zerolog.Logger) (*gorm.DB, error) {
	gl := log.With().Str("component", "gorm").Logger()
	cfg := &gorm.Config{
		Logger: logger.New(&gl, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	if dial.Name() == "sqlite" {
		// sqlite locks the whole file for writers
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Info().Str("dialect", dial.Name()).Msg("gorm: connected")
	return db, nil
}
