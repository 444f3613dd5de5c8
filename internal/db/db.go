package db

import (
	"strings"
	"time"

	"github.com/AlanVogel/ChatAppSample/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database. A DSN of the form "sqlite://<path>" selects an
// embedded sqlite file (":memory:" for throwaway instances); anything else is
// treated as a Postgres DSN, retried briefly so the app can wait out a
// container that is still starting.
func Connect(dsn string) (*gorm.DB, error) {
	if name, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return connectSQLite(name)
	}
	var gdb *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		gdb, err = gorm.Open(postgres.Open(dsn), gormConfig())
		if err == nil {
			sqlDB, err2 := gdb.DB()
			if err2 == nil {
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetMaxOpenConns(20)
				sqlDB.SetConnMaxLifetime(time.Hour)
				return gdb, nil
			}
			err = err2
		}
		time.Sleep(time.Duration(500+i*200) * time.Millisecond)
	}
	return nil, err
}

func connectSQLite(name string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(name), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// One connection keeps an in-memory database alive across the pool.
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

// Migrate creates or updates the five chat tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.ConversationMember{},
		&models.ConversationMessage{},
	)
}
