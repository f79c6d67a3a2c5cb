package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCountry is used for the shipping address when a user has none saved
const DefaultCountry = "United Kingdom"

// Address is a postal shipping address
type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// DefaultShippingAddress is the placeholder used when the user has no address
func DefaultShippingAddress() Address {
	return Address{Country: DefaultCountry}
}

// User represents user data in the system.
//
// Password is only ever set for accounts created through the local fallback
// path. Accounts authenticated by the backend keep their hash server side in
// PasswordHash, which is never serialized.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"-" json:"password,omitempty"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Phone        string    `gorm:"size:20" json:"phone,omitempty"`
	JoinedDate   time.Time `gorm:"autoCreateTime;index" json:"joined_date"`
	Address      *Address  `gorm:"-" json:"address,omitempty"`
}

// BeforeCreate assigns a uuid and normalizes the email
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// UserInput holds data for creating a user from the admin surface
type UserInput struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// UserPatch carries a partial user update
type UserPatch struct {
	Name     *string  `json:"name,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Password *string  `json:"password,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// Apply merges the patch into u
func (up UserPatch) Apply(u *User) {
	if up.Name != nil {
		u.Name = *up.Name
	}
	if up.Email != nil {
		u.Email = *up.Email
	}
	if up.Password != nil {
		u.Password = *up.Password
	}
	if up.Phone != nil {
		u.Phone = *up.Phone
	}
	if up.Address != nil {
		addr := *up.Address
		u.Address = &addr
	}
}

// UserRegister holds data needed for sign up
type UserRegister struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserLogin holds data needed for sign in
type UserLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Identity is the authenticated account returned by the auth endpoints
type Identity struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	CreatedAt    time.Time         `json:"created_at"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
}

// AuthSession is the sign in / sign up response body
type AuthSession struct {
	AccessToken string   `json:"access_token"`
	User        Identity `json:"user"`
}

// IdentityFor builds the public identity of a stored user
func IdentityFor(u User) Identity {
	id := Identity{ID: u.ID, Email: u.Email, CreatedAt: u.JoinedDate}
	if u.Name != "" {
		id.UserMetadata = map[string]string{"name": u.Name}
	}
	return id
}
