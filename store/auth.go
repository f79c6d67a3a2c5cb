package store

import (
	"context"
	"strings"

	"github.com/Cloud-Net-Park/Gravel/models"
)

// Login signs in with the backend, falling back to a local account with a
// matching email and password when the backend call fails.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	identity, err := s.backend.SignIn(ctx, models.UserLogin{Email: email, Password: password})
	if err == nil && identity.ID != "" {
		s.signIn(s.userFromIdentity(identity, "", email))
		return true
	}
	if err == nil {
		return false
	}
	s.logger.Warn("remote sign in failed, trying local accounts", "op", "Login", "email", email, "error", err)

	s.mu.RLock()
	var match *models.User
	for _, u := range s.users {
		if u.Email == email && u.Password != "" && u.Password == password {
			u := u
			match = &u
			break
		}
	}
	s.mu.RUnlock()

	if match == nil {
		return false
	}
	s.logger.Info("signed in with local account", "op", "Login", "id", match.ID)
	s.signIn(*match)
	return true
}

// Register creates an account with the backend. When the backend call fails
// the account is created locally, unless a user with that email exists.
func (s *Store) Register(ctx context.Context, name, email, password string) bool {
	identity, err := s.backend.SignUp(ctx, models.UserRegister{Name: name, Email: email, Password: password})
	if err == nil && identity.ID != "" {
		user := s.userFromIdentity(identity, name, email)
		user.JoinedDate = s.now()
		s.mu.Lock()
		if !containsUser(s.users, user.ID) {
			s.users = append(s.users, user)
		}
		s.mu.Unlock()
		s.signIn(user)
		return true
	}
	if err == nil {
		return false
	}
	s.logger.Warn("remote sign up failed, registering locally", "op", "Register", "email", email, "error", err)

	id := s.localID("user")
	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			s.mu.Unlock()
			return false
		}
	}
	user := models.User{
		ID:         id,
		Name:       name,
		Email:      email,
		Password:   password,
		JoinedDate: s.now(),
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	s.logger.Info("registered local account", "op", "Register", "id", user.ID)
	s.signIn(user)
	return true
}

// Logout signs out with the backend, then clears the current user, the
// cart and the admin flag whatever the backend said.
func (s *Store) Logout(ctx context.Context) {
	if err := s.backend.SignOut(ctx); err != nil {
		s.logger.Warn("remote sign out failed", "op", "Logout", "error", err)
	}

	s.mu.Lock()
	s.currentUser = nil
	s.cart = nil
	s.isAdmin = false
	s.mu.Unlock()

	s.persistUser(nil)
}

// SetCurrentUser replaces the signed-in user; nil signs out locally.
func (s *Store) SetCurrentUser(user *models.User) {
	var stored *models.User
	if user != nil {
		u := *user
		stored = &u
	}
	s.mu.Lock()
	s.currentUser = stored
	s.mu.Unlock()

	s.persistUser(stored)
}

func (s *Store) SetAdmin(admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isAdmin = admin
}

func (s *Store) signIn(user models.User) {
	s.mu.Lock()
	u := user
	s.currentUser = &u
	s.isAdmin = false
	s.mu.Unlock()

	s.persistUser(&user)
}

func (s *Store) persistUser(user *models.User) {
	if s.sessions == nil {
		return
	}
	var err error
	if user == nil {
		err = s.sessions.ClearUser()
	} else {
		err = s.sessions.SaveUser(*user)
	}
	if err != nil {
		s.logger.Warn("could not persist session", "error", err)
	}
}

// userFromIdentity builds the app user for a backend account. The name comes
// from the account metadata, then from name, then from the email local part.
func (s *Store) userFromIdentity(identity models.Identity, name, email string) models.User {
	user := models.User{
		ID:         identity.ID,
		Email:      identity.Email,
		Name:       identity.UserMetadata["name"],
		JoinedDate: identity.CreatedAt,
	}
	if user.Email == "" {
		user.Email = email
	}
	if user.Name == "" {
		user.Name = name
	}
	if user.Name == "" {
		user.Name, _, _ = strings.Cut(user.Email, "@")
	}
	if user.JoinedDate.IsZero() {
		user.JoinedDate = s.now()
	}
	return user
}

func containsUser(users []models.User, id string) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
