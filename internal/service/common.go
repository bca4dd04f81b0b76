package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// normalizeEmail trims and lowercases an address before any lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// orNotFound replaces gorm.ErrRecordNotFound with the given domain error.
func orNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// withRetry runs fn up to attempts times with exponential backoff.
// permanent reports errors that must not be retried.
func withRetry(ctx context.Context, attempts int, backoff time.Duration, permanent func(error) bool, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if permanent != nil && permanent(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(backoff << i):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
