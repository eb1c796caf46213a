package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"storefront/config"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Config 事务重试配置
type Config struct {
	Enabled            bool
	MaxAttempts        int
	InitialDelay       time.Duration
	MaxDelay           time.Duration
	BackoffFactor      float64
	JitterEnabled      bool
	RetryOnDeadlock    bool
	RetryOnLockTimeout bool
	RetryPredicate     func(error) bool
}

var DefaultConfig = Config{
	Enabled:            true,
	MaxAttempts:        3,
	InitialDelay:       100 * time.Millisecond,
	MaxDelay:           2 * time.Second,
	BackoffFactor:      2.0,
	JitterEnabled:      true,
	RetryOnDeadlock:    true,
	RetryOnLockTimeout: true,
}

func FromAppConfig(db config.DatabaseConfig) Config {
	rc := db.Retry
	return Config{
		Enabled:            rc.Enabled,
		MaxAttempts:        rc.MaxAttempts,
		InitialDelay:       rc.InitialDelay,
		MaxDelay:           rc.MaxDelay,
		BackoffFactor:      rc.BackoffFactor,
		JitterEnabled:      rc.JitterEnabled,
		RetryOnDeadlock:    rc.RetryOnDeadlock,
		RetryOnLockTimeout: rc.RetryOnLockTimeout,
	}
}

func ExponentialBackoffWithJitter(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		// ±20%
		delay = delay * (0.8 + rand.Float64()*0.4)
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// IsRetryableError 判断错误是否为瞬时错误
// MySQL 1213 (deadlock) / 1205 (lock wait timeout), sqlite busy, lost connections
func IsRetryableError(err error, config Config) bool {
	if err == nil {
		return false
	}
	if config.RetryPredicate != nil && config.RetryPredicate(err) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213:
			return config.RetryOnDeadlock
		case 1205:
			return config.RetryOnLockTimeout
		}
		return false
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "deadlock") {
		return config.RetryOnDeadlock
	}
	if strings.Contains(errStr, "lock wait timeout") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "sqlite_busy") {
		return config.RetryOnLockTimeout
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) ||
		(strings.Contains(errStr, "connection") && strings.Contains(errStr, "lost")) {
		return true
	}
	return false
}

// ExecuteWithRetry 执行 fn，遇到可重试错误时按指数退避重试
func ExecuteWithRetry(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	if !config.Enabled || config.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if !IsRetryableError(err, config) || attempt == config.MaxAttempts {
			break
		}

		if delay := ExponentialBackoffWithJitter(attempt, config); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	return lastErr
}
