package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/Cloud-Net-Park/Gravel/models"
)

// RefreshFitProfiles replaces the fit profiles with the backend's, which
// carry the owner's name and email. A failed fetch keeps the current list.
func (s *Store) RefreshFitProfiles(ctx context.Context) error {
	profiles, err := s.backend.ListFitProfiles(ctx)
	if err != nil {
		s.logger.Warn("could not fetch fit profiles", "op", "RefreshFitProfiles", "error", err)
		return err
	}
	s.mu.Lock()
	s.fitProfiles = profiles
	s.mu.Unlock()
	return nil
}

// AddFitProfile saves a profile on the backend, replaces or appends it
// locally and refetches. Backend failures are logged and change nothing.
func (s *Store) AddFitProfile(ctx context.Context, in models.FitProfileInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("invalid fit profile: %w", err)
	}

	stored, err := s.backend.UpsertFitProfile(ctx, in)
	if err != nil {
		s.logger.Warn("could not save fit profile", "op", "AddFitProfile", "user_id", in.UserID, "error", err)
		return nil
	}

	s.mu.Lock()
	s.upsertFitProfileLocked(stored)
	s.mu.Unlock()

	_ = s.RefreshFitProfiles(ctx)
	return nil
}

// UpdateFitProfile patches the profile of userID on the backend, then
// locally, then refetches.
func (s *Store) UpdateFitProfile(ctx context.Context, userID string, patch models.FitProfilePatch) error {
	if err := s.validate.Struct(patch); err != nil {
		return fmt.Errorf("invalid fit profile update: %w", err)
	}

	if _, err := s.backend.UpdateFitProfile(ctx, userID, patch); err != nil {
		s.logger.Warn("could not update fit profile", "op", "UpdateFitProfile", "user_id", userID, "error", err)
		return nil
	}

	s.mu.Lock()
	for i := range s.fitProfiles {
		if s.fitProfiles[i].UserID == userID {
			patch.Apply(&s.fitProfiles[i])
		}
	}
	s.mu.Unlock()

	_ = s.RefreshFitProfiles(ctx)
	return nil
}

// DeleteFitProfile deletes the profile of userID on the backend and then
// locally.
func (s *Store) DeleteFitProfile(ctx context.Context, userID string) {
	if err := s.backend.DeleteFitProfile(ctx, userID); err != nil {
		s.logger.Warn("could not delete fit profile", "op", "DeleteFitProfile", "user_id", userID, "error", err)
		return
	}

	s.mu.Lock()
	s.fitProfiles = slices.DeleteFunc(s.fitProfiles, func(f models.FitProfile) bool { return f.UserID == userID })
	s.mu.Unlock()
}

// SaveFitProfile stores a profile for the current user without involving
// the backend. An existing profile is replaced in place.
func (s *Store) SaveFitProfile(in models.FitProfileInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil {
		return ErrNotSignedIn
	}
	in.UserID = s.currentUser.ID
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("invalid fit profile: %w", err)
	}

	profile := in.ToProfile()
	profile.CreatedAt = s.now()
	profile.UpdatedAt = profile.CreatedAt
	s.upsertFitProfileLocked(profile)
	return nil
}

// FitProfileFor returns the profile of userID.
func (s *Store) FitProfileFor(userID string) (models.FitProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fitProfiles {
		if f.UserID == userID {
			return f, true
		}
	}
	return models.FitProfile{}, false
}

func (s *Store) upsertFitProfileLocked(profile models.FitProfile) {
	for i := range s.fitProfiles {
		if s.fitProfiles[i].UserID == profile.UserID {
			s.fitProfiles[i] = profile
			return
		}
	}
	s.fitProfiles = append(s.fitProfiles, profile)
}
