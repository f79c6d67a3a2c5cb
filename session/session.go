// Package session persists the signed-in user between storefront runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Cloud-Net-Park/Gravel/models"

	"github.com/peterbourgon/diskv"
)

// CurrentUserKey is the key the signed-in user is stored under.
const CurrentUserKey = "currentUser"

// DiskStore is a directory-backed key value store.
type DiskStore struct {
	d *diskv.Diskv
}

// NewDiskStore opens (creating on first write) the store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 << 10,
	})}
}

// LoadUser returns the stored user, or nil when none is stored.
func (s *DiskStore) LoadUser() (*models.User, error) {
	raw, err := s.d.Read(CurrentUserKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", CurrentUserKey, err)
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode %s: %w", CurrentUserKey, err)
	}
	return &user, nil
}

// SaveUser stores user as the signed-in user.
func (s *DiskStore) SaveUser(user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode %s: %w", CurrentUserKey, err)
	}
	if err := s.d.Write(CurrentUserKey, raw); err != nil {
		return fmt.Errorf("write %s: %w", CurrentUserKey, err)
	}
	return nil
}

// ClearUser forgets the signed-in user. Clearing an empty store is not an error.
func (s *DiskStore) ClearUser() error {
	if err := s.d.Erase(CurrentUserKey); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("erase %s: %w", CurrentUserKey, err)
	}
	return nil
}
