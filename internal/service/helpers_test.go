package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/realtime"
	"github.com/pageza/recipebook/backend/internal/store"
	"github.com/pageza/recipebook/backend/internal/store/gormstore"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
)

const testSecret = "test-secret"

func setupStore(t *testing.T) (store.Store, *realtime.Hub) {
	t.Helper()
	hub := realtime.NewHub()
	t.Cleanup(func() { hub.Close() })
	return gormstore.New(testhelpers.SetupTestDatabase(t)), hub
}

// failingProfiles makes every profile creation fail
type failingProfiles struct {
	store.Store
}

func (failingProfiles) CreateProfile(context.Context, *models.UserProfile) error {
	return errors.New("profile write failed")
}

// nextMatching reads from ch until match returns true
func nextMatching[T any](t *testing.T, ch <-chan T, match func(T) bool) T {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatal("live sequence ended")
			}
			if match(v) {
				return v
			}
		case <-timeout:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

var nopLogger = zap.NewNop()
