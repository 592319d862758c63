package config

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DB process-wide database handle
var DB *gorm.DB

// OpenDB opens a gorm connection for one of the supported drivers.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		// pure-Go driver registered by modernc.org/sqlite
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// InitDB connects to the configured database.
func InitDB(driver, dsn string) {
	var err error
	DB, err = OpenDB(driver, dsn)
	if err != nil {
		Logger.Fatal("Error connecting to the database", zap.String("driver", driver), zap.Error(err))
	}
	Logger.Info("Database connected", zap.String("driver", driver))
}
