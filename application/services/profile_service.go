package services

import (
	"context"

	"go.uber.org/zap"

	"dkcal-backend/application/ports"
	"dkcal-backend/domain/profile"
)

// ProfileService implements the profile use cases.
type ProfileService struct {
	store  ports.ProfileStore
	logger *zap.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store ports.ProfileStore, logger *zap.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logger}
}

// Get returns the user's profile, defaulting for a user who never saved one.
func (s *ProfileService) Get(ctx context.Context, userID string) (profile.Profile, error) {
	return s.store.ReadProfile(ctx, userID)
}

// Update merges the patch into the stored profile and persists the result.
// Out-of-range fields reject the whole patch before any write.
func (s *ProfileService) Update(ctx context.Context, userID string, patch profile.Patch) (profile.Profile, error) {
	p, err := s.store.ReadProfile(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}
	if err := p.Apply(patch); err != nil {
		return profile.Profile{}, err
	}
	if err := s.store.WriteProfile(ctx, userID, p); err != nil {
		return profile.Profile{}, err
	}
	s.logger.Debug("profile updated", zap.String("user_id", userID))
	return p, nil
}
