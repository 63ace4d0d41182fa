package datastore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/dovewatch/dovewatch-go/internal/conf"
	"github.com/dovewatch/dovewatch-go/internal/errors"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings *conf.Settings
}

func validateMySQLConfig(settings *conf.Settings) error {
	mysqlConf := settings.Output.MySQL
	if mysqlConf.Host == "" || mysqlConf.Database == "" {
		return errors.Newf("mysql host and database are required").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}

// Open sets up the MySQL database connection and migrates the schema.
func (store *MySQLStore) Open() error {
	if err := validateMySQLConfig(store.Settings); err != nil {
		return err
	}

	mysqlConf := store.Settings.Output.MySQL
	// parseTime is required so timestamp columns scan into time.Time, loc=UTC
	// keeps the canonical representation on the wire.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		mysqlConf.Username, mysqlConf.Password, mysqlConf.Host, mysqlConf.Port, mysqlConf.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: createGormLogger()})
	if err != nil {
		return errors.Newf("failed to open MySQL database: %v", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("host", mysqlConf.Host).
			Build()
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "MySQL", mysqlConf.Host)
}

// Close closes the MySQL database connection.
func (store *MySQLStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// New creates the event store selected by the output settings, prioritizing
// SQLite when both are enabled.
func New(settings *conf.Settings) (Interface, error) {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}, nil
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}, nil
	default:
		return nil, errors.Newf("no database output enabled").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}
