// Package database opens, migrates and seeds the userdesk database.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/userdesk/userdesk/config"
	"github.com/userdesk/userdesk/database/model"
	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/util/crypto"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultLogin    = "admin"
	defaultPassword = "admin"
	defaultBirth    = "1970-01-01"
)

func initModels(db *gorm.DB) error {
	models := []any{
		&model.Permission{},
		&model.User{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Errorf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// InitDB opens the configured database and migrates the schema. The returned
// handle is owned by the caller and released with CloseDB.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := cfg.EnsureDirectoryExists(); err != nil {
		return nil, err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	var dialector gorm.Dialector
	if cfg.IsPostgreSQL() {
		dialector = postgres.Open(cfg.GetDSN())
	} else {
		dialector = sqlite.Open(cfg.GetDSN())
	}

	db, err := gorm.Open(dialector, c)
	if err != nil {
		return nil, err
	}

	if cfg.IsSQLite() {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		for _, pragma := range []string{
			"PRAGMA cache_size = -64000;",
			"PRAGMA temp_store = MEMORY;",
			"PRAGMA foreign_keys = ON;",
		} {
			if _, err := sqlDB.Exec(pragma); err != nil {
				return nil, err
			}
		}
	}

	if err := initModels(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Seed creates the permission catalog and the default admin user unless an
// admin login already exists.
func Seed(db *gorm.DB, hasher *crypto.Hasher) error {
	var count int64
	if err := db.Model(&model.User{}).Where("login = ?", defaultLogin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, perm := range model.DefaultPermissions() {
			if err := tx.Where(model.Permission{Id: perm.Id}).FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", perm.PermName, err)
			}
		}

		hashed, err := hasher.Hash(defaultPassword)
		if err != nil {
			return err
		}
		birth, _ := time.Parse(time.DateOnly, defaultBirth)
		name, surname := defaultLogin, defaultLogin
		adminID := model.PermAdminID
		admin := &model.User{
			Name:         &name,
			Surname:      &surname,
			Login:        defaultLogin,
			Password:     hashed,
			DateOfBirth:  &birth,
			PermissionId: &adminID,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		logger.Info("default admin user created")
		return nil
	})
}

// CloseDB checkpoints SQLite and closes the connection pool.
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if db.Dialector.Name() == "sqlite" {
		if err := Checkpoint(db); err != nil {
			logger.Warningf("error executing checkpoint: %v", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Checkpoint flushes the SQLite write-ahead log into the main database file.
func Checkpoint(db *gorm.DB) error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
