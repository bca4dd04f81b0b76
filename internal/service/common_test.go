package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "assetverse/internal/errors"
)

func TestWithRetry(t *testing.T) {
	transient := errors.New("timeout")
	permanent := errors.New("disabled")
	isPermanent := func(err error) bool { return errors.Is(err, permanent) }

	tests := []struct {
		name      string
		results   []error
		wantCalls int
		wantErr   error
	}{
		{"first try succeeds", []error{nil}, 1, nil},
		{"succeeds after transient failures", []error{transient, transient, nil}, 3, nil},
		{"gives up after attempts", []error{transient, transient, transient, nil}, 3, transient},
		{"permanent error stops immediately", []error{permanent, nil}, 1, permanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withRetry(context.Background(), 3, time.Millisecond, isPermanent, func() error {
				err := tt.results[calls]
				calls++
				return err
			})
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 5, time.Hour, nil, func() error {
		calls++
		cancel()
		return errors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestOrNotFound(t *testing.T) {
	assert.Equal(t, apperrors.ErrAssetNotFound, orNotFound(gorm.ErrRecordNotFound, apperrors.ErrAssetNotFound))
	other := errors.New("db down")
	assert.Equal(t, other, orNotFound(other, apperrors.ErrAssetNotFound))
}
