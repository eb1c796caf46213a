/*
Package gormrepo GORM persistence backend for products, orders and the outbox.

Supported drivers: mysql, postgres, sqlite. Repositories take the transaction
from the context when called inside UnitOfWork.Execute and open their own
otherwise. GORM associations are not used; order/product links live in the
order_products table and are written explicitly.
*/
package gormrepo

import (
	"context"
	"fmt"
	"time"

	"storefront/config"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

type Config struct {
	Driver          string        `mapstructure:"type" json:"type"`
	Host            string        `mapstructure:"host" json:"host"`
	Port            string        `mapstructure:"port" json:"port"`
	Username        string        `mapstructure:"username" json:"username"`
	Password        string        `mapstructure:"password" json:"password"`
	Database        string        `mapstructure:"database" json:"database"`
	Path            string        `mapstructure:"path" json:"path"`
	SSLMode         string        `mapstructure:"ssl_mode" json:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" json:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level" json:"log_level"`

	// Logger receives GORM output; nil uses the global "gorm" logger
	Logger *zap.Logger `mapstructure:"-" json:"-"`
}

// FromAppConfig builds a Config from the database section of the app config
func FromAppConfig(db config.DatabaseConfig, logLevel string) *Config {
	return &Config{
		Driver:          db.Type,
		Host:            db.Host,
		Port:            db.Port,
		Username:        db.Username,
		Password:        db.Password,
		Database:        db.Database,
		Path:            db.Path,
		SSLMode:         db.SSLMode,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
		LogLevel:        logLevel,
	}
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&collation=utf8mb4_unicode_ci&readTimeout=10s&writeTimeout=10s",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *Config) PostgresDSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "mysql":
		return mysql.Open(c.MySQLDSN()), nil
	case "postgres":
		return postgres.Open(c.PostgresDSN()), nil
	case "sqlite":
		if c.Path == "" {
			return nil, fmt.Errorf("sqlite requires a path")
		}
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.Driver)
	}
}

func (c *Config) parseLogLevel() gormlogger.LogLevel {
	switch c.LogLevel {
	case "debug", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	// every sqlite connection to ":memory:" is a separate database
	if c.Driver == "sqlite" {
		c.MaxOpenConns = 1
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = DefaultConnMaxIdleTime
	}
}

func (c *Config) gormLogger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Named("gorm")
}

func (c *Config) Connect() (*gorm.DB, error) {
	c.applyDefaults()
	dialector, err := c.dialector()
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger: logger.NewGormLogger(c.gormLogger(), c.parseLogLevel(), logger.GormLoggerConfig{
			SlowThreshold:             200 * time.Millisecond,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	logger.Info("Database connected",
		zap.String("driver", c.Driver),
		zap.String("host", c.Host),
		zap.String("database", c.Database),
		zap.Int("max_open_conns", c.MaxOpenConns),
		zap.Int("max_idle_conns", c.MaxIdleConns),
		zap.Duration("conn_max_lifetime", c.ConnMaxLifetime),
	)

	return db, nil
}

// Ping checks an open connection
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
