package journal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the journal database. SQLite needs no server and is the
// default for CLI use; MySQL is available for shared deployments.
func Connect(cfg Config) (*gorm.DB, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	// Suppress GORM logging, warnings go through the main logger instead
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var db *gorm.DB
	var err error

	switch cfg.Driver {
	case DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			path = "registrator.db"
		}
		db, err = gorm.Open(sqlite.Open(path), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal database: %w", err)
		}
		return db, nil

	case DriverMySQL:
		// The mysql driver wants special characters in the password URL encoded,
		// url.UserPassword handles that.
		userInfo := url.UserPassword(cfg.User, cfg.Password).String()

		// timeout: connection setup, readTimeout/writeTimeout: I/O
		dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
			userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to journal database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}

		// Set connection pool settings to avoid typical issues
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)

		// Verify connection with context timeout
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
		defer cancel()

		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping journal database: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported journal driver %q", cfg.Driver)
	}
}

// Journal records registration runs and serves them back to the report API.
type Journal struct {
	db *gorm.DB
}

// New wraps the gorm handle and migrates the journal schema.
func New(db *gorm.DB) (*Journal, error) {
	if err := db.AutoMigrate(&Run{}, &Action{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record persists a finished run together with its actions.
func (j *Journal) Record(ctx context.Context, run *Run) error {
	if err := j.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns the latest runs without their actions, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := j.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its actions, or nil when the id is unknown.
func (j *Journal) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := j.db.WithContext(ctx).Preload("Actions").First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return &run, nil
}

// Count returns the total number of recorded runs.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := j.db.WithContext(ctx).Model(&Run{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
