package rdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenFromURL opens a GORM DB based on a simple db-url string.
// Supported:
//   - sqlite:<dsn>   e.g., sqlite:./shipyard.db or sqlite::memory:
//   - sqlite3:<dsn>  alias of sqlite
//   - mysql:<dsn>    e.g., mysql:user:pass@tcp(127.0.0.1:3306)/shipyard?parseTime=true
func OpenFromURL(dbURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)}
	switch {
	case strings.HasPrefix(dbURL, "sqlite:"), strings.HasPrefix(dbURL, "sqlite3:"):
		dsn := dbURL[strings.Index(dbURL, ":")+1:]
		if dsn == "" {
			dsn = "./shipyard.db"
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	case strings.HasPrefix(dbURL, "mysql:"):
		dsn := strings.TrimPrefix(dbURL, "mysql:")
		if dsn == "" {
			return nil, fmt.Errorf("mysql db-url requires a dsn")
		}
		if !strings.Contains(dsn, "parseTime=") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
		return gorm.Open(mysql.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
}

// AutoMigrate applies schema migrations for all RDB models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&EnvironmentRecord{},
		&ClusterRecord{},
		&ApplicationRecord{},
		&InstanceRecord{},
		&ComponentRecord{},
		&ClusterInstanceRecord{},
		&TemplateRecord{},
		&TemplateConfigRecord{},
		&SettingRecord{},
	)
}

// NewRepositories returns repositories bound to db (or a transaction handle).
func NewRepositories(db *gorm.DB) *domain.Repositories {
	return &domain.Repositories{
		Environment:     NewEnvironmentRepository(db),
		Cluster:         NewClusterRepository(db),
		Application:     NewApplicationRepository(db),
		Instance:        NewInstanceRepository(db),
		Component:       NewComponentRepository(db),
		ClusterInstance: NewClusterInstanceRepository(db),
		Template:        NewTemplateRepository(db),
		TemplateConfig:  NewTemplateConfigRepository(db),
		Setting:         NewSettingRepository(db),
	}
}

// UnitOfWork runs a function inside a database transaction.
type UnitOfWork struct{ db *gorm.DB }

func NewUnitOfWork(db *gorm.DB) *UnitOfWork { return &UnitOfWork{db: db} }

func (u *UnitOfWork) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)

// translate maps gorm errors onto domain sentinels.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", model.ErrAlreadyExists, err)
	default:
		return err
	}
}

// updateAll writes every column of rec except created_at, so zero values such as enabled=false persist.
func updateAll(ctx context.Context, db *gorm.DB, rec any, id string, notFound error) error {
	res := db.WithContext(ctx).Model(rec).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(rec)
	if res.Error != nil {
		return translate(res.Error, notFound)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *gorm.DB, rec any, id string, notFound error) error {
	res := db.WithContext(ctx).Delete(rec, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
