// Package db opens the relational store and keeps the schema current
package db

import (
	"fmt"

	"mmvds/files-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the configured database and migrates the User and File
// tables. Called once from the process entry point before any traffic
// is served.
func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch viper.GetString("database.driver") {
	case "postgres":
		dialector = postgres.Open(viper.GetString("database.dsn"))
	default:
		dialector = sqlite.Open(viper.GetString("database.path"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.File{}); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
