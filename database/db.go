package database

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path"
	"strings"
	"sync"

	"rjokes/config"
	"rjokes/database/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// db is the process-wide handle. One pool per process, opened once by
// InitDB and reused across requests.
var (
	db       *gorm.DB
	initOnce sync.Once
)

func initModels() error {
	models := []any{
		&model.User{},
		&model.Joke{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// InitDB opens the connection pool and migrates the schema. Repeated calls
// are no-ops so a dev-mode reload cannot open a second pool.
func InitDB(dsn string) error {
	var err error
	initOnce.Do(func() {
		err = openDB(dsn)
	})
	return err
}

func openDB(dsn string) error {
	dbPath := dsn
	if i := strings.IndexByte(dbPath, '?'); i >= 0 {
		dbPath = dbPath[:i]
	}
	if err := os.MkdirAll(path.Dir(dbPath), fs.ModePerm); err != nil {
		return err
	}

	var gormLogger logger.Interface
	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	if !strings.Contains(dsn, "?") {
		// _foreign_keys rides the DSN so every pooled connection enforces
		// referential integrity, not just the one the pragma ran on.
		dsn += "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	}
	var err error
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	for _, pragma := range []string{
		"PRAGMA cache_size = -64000;",
		"PRAGMA temp_store = MEMORY;",
		"PRAGMA foreign_keys = ON;",
	} {
		if _, err = sqlDB.Exec(pragma); err != nil {
			return err
		}
	}

	return initModels()
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			log.Printf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
		db = nil
		initOnce = sync.Once{}
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err came from a unique-constraint violation.
// This is the actual guarantee behind the register fast-path check.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsForeignKeyViolated reports whether err came from a broken reference,
// e.g. a joke insert naming a jokester that does not exist.
func IsForeignKeyViolated(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func Checkpoint() error {
	// Update WAL
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
