package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Cloud-Net-Park/Gravel/models"
)

// RefreshUsers replaces the user list with the backend's. A failed fetch or
// an empty answer leaves the current list alone.
func (s *Store) RefreshUsers(ctx context.Context) error {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		s.logger.Warn("could not fetch users, keeping current list", "op", "RefreshUsers", "error", err)
		return err
	}
	if len(users) == 0 {
		return nil
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// AddUser creates a local user from the admin surface.
func (s *Store) AddUser(in models.UserInput) (models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.User{}, fmt.Errorf("invalid user: %w", err)
	}
	user := models.User{
		ID:         s.localID("user"),
		Name:       in.Name,
		Email:      in.Email,
		Password:   in.Password,
		Phone:      in.Phone,
		JoinedDate: s.now(),
	}
	if in.Address != nil {
		addr := *in.Address
		user.Address = &addr
	}

	s.mu.Lock()
	s.users = append(s.users, user)
	s.mu.Unlock()
	return user, nil
}

// UpdateUser applies patch to the local user id.
func (s *Store) UpdateUser(id string, patch models.UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			patch.Apply(&s.users[i])
		}
	}
}

// DeleteUser removes user id along with their orders and fit profile.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = slices.DeleteFunc(s.users, func(u models.User) bool { return u.ID == id })
	s.orders = slices.DeleteFunc(s.orders, func(o models.Order) bool { return o.UserID == id })
	s.fitProfiles = slices.DeleteFunc(s.fitProfiles, func(f models.FitProfile) bool { return f.UserID == id })
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
