package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/realtime"
	"github.com/pageza/recipebook/backend/internal/store"
	"github.com/pageza/recipebook/backend/internal/types"
)

// ErrProfileNotFound is returned when users/{uid} does not exist
var ErrProfileNotFound = errors.New("profile not found")

// ProfileService handles user profile operations
type ProfileService struct {
	store  store.ProfileStore
	broker realtime.Broker
	log    *zap.Logger
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(s store.ProfileStore, broker realtime.Broker, log *zap.Logger) *ProfileService {
	return &ProfileService{store: s, broker: broker, log: log}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile, err := s.store.GetProfile(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveProfile merges the editable fields into the profile. The email comes
// from the session; favorites are left as they are.
func (s *ProfileService) SaveProfile(ctx context.Context, uid, email string, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.store.MergeProfile(ctx, uid, models.ProfileFields{
		Email:           email,
		Name:            req.Name,
		DateOfBirth:     req.DateOfBirth,
		FavoriteCuisine: req.FavoriteCuisine,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	publish(ctx, s.broker, s.log, realtime.Event{Topic: realtime.UserTopic(uid), ID: uid, Op: realtime.OpUpdated})
	return profile, nil
}

// WatchProfile streams the profile after every change to users/{uid}
func (s *ProfileService) WatchProfile(ctx context.Context, uid string) (<-chan types.ProfileSnapshot, error) {
	return watch(ctx, s.broker, s.log, []string{realtime.UserTopic(uid)}, func(ctx context.Context) (types.ProfileSnapshot, error) {
		profile, err := s.store.GetProfile(ctx, uid)
		if errors.Is(err, store.ErrNotFound) {
			return types.ProfileSnapshot{Found: false}, nil
		}
		if err != nil {
			return types.ProfileSnapshot{}, err
		}
		return types.ProfileSnapshot{Found: true, Profile: profile}, nil
	})
}
