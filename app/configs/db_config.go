package configs

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func dialector(env ENV) (gorm.Dialector, string, error) {
	switch env.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			env.DBUser,
			env.DBPassword,
			env.DBHost,
			env.DBPort,
			env.DBName,
		)
		return mysql.Open(dsn), dsn, nil
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			env.DBHost,
			env.DBPort,
			env.DBUser,
			env.DBPassword,
			env.DBName,
		)
		return postgres.Open(dsn), dsn, nil
	case "sqlite":
		return sqlite.Open(env.DBName), env.DBName, nil
	default:
		return nil, "", fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}
}

func OpenConnection(env ENV, log *zap.Logger) (*gorm.DB, error) {
	dial, dsn, err := dialector(env)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if !env.IsProduction() {
		logLevel = gormlogger.Info
	}

	maxRetries := env.DBConnectRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	retryDelay := 5 * time.Second

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		log.Info("connecting to database",
			zap.String("driver", env.DBDriver),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
		)

		db, err := gorm.Open(dial, &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					sqlDB.SetMaxOpenConns(env.DBMaxOpenConns)
					sqlDB.SetMaxIdleConns(env.DBMaxIdleConns)
					sqlDB.SetConnMaxLifetime(env.DBConnMaxLifetime)
					log.Info("database connection successful")
					return db, nil
				}
			}
			lastErr = pingErr
			log.Warn("failed to ping database", zap.Error(pingErr), zap.Duration("retry_in", retryDelay))
		} else {
			lastErr = err
			log.Warn("failed to open gorm connection", zap.Error(err), zap.Duration("retry_in", retryDelay))
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if env.DBDriver != "sqlite" {
		dsn = "***MASKED***"
	}
	return nil, fmt.Errorf("failed to connect to the database after %d retries (dsn %s): %w", maxRetries, dsn, lastErr)
}
