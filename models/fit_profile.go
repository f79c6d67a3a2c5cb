package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreferredFit is how loosely a customer likes garments to sit
type PreferredFit string

const (
	FitSlim    PreferredFit = "slim"
	FitRegular PreferredFit = "regular"
	FitRelaxed PreferredFit = "relaxed"
)

// FitProfile holds a customer's measurements. There is at most one per user.
// UserName and UserEmail are filled from the users table on reads only.
type FitProfile struct {
	ID            string       `gorm:"type:varchar(36);primaryKey" json:"id,omitempty"`
	UserID        string       `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Height        string       `gorm:"size:20" json:"height"`
	Weight        string       `gorm:"size:20" json:"weight"`
	Chest         string       `gorm:"size:20" json:"chest"`
	Waist         string       `gorm:"size:20" json:"waist"`
	Hips          string       `gorm:"size:20" json:"hips"`
	PreferredFit  PreferredFit `gorm:"size:20" json:"preferred_fit"`
	PreferredSize string       `gorm:"size:10" json:"preferred_size"`
	Notes         string       `gorm:"type:text" json:"notes,omitempty"`
	UserName      string       `gorm:"->;-:migration" json:"user_name,omitempty"`
	UserEmail     string       `gorm:"->;-:migration" json:"user_email,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a uuid when the caller did not supply an id
func (f *FitProfile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FitProfileInput holds the measurements submitted by the fit profile form
type FitProfileInput struct {
	UserID        string       `json:"user_id" binding:"required"`
	Height        string       `json:"height" binding:"required"`
	Weight        string       `json:"weight" binding:"required"`
	Chest         string       `json:"chest" binding:"required"`
	Waist         string       `json:"waist" binding:"required"`
	Hips          string       `json:"hips"`
	PreferredFit  PreferredFit `json:"preferred_fit" binding:"required,oneof=slim regular relaxed"`
	PreferredSize string       `json:"preferred_size" binding:"required"`
	Notes         string       `json:"notes,omitempty"`
}

// ToProfile converts the input into a profile row
func (in FitProfileInput) ToProfile() FitProfile {
	return FitProfile{
		UserID:        in.UserID,
		Height:        in.Height,
		Weight:        in.Weight,
		Chest:         in.Chest,
		Waist:         in.Waist,
		Hips:          in.Hips,
		PreferredFit:  in.PreferredFit,
		PreferredSize: in.PreferredSize,
		Notes:         in.Notes,
	}
}

// FitProfilePatch carries a partial fit profile update
type FitProfilePatch struct {
	Height        *string       `json:"height,omitempty"`
	Weight        *string       `json:"weight,omitempty"`
	Chest         *string       `json:"chest,omitempty"`
	Waist         *string       `json:"waist,omitempty"`
	Hips          *string       `json:"hips,omitempty"`
	PreferredFit  *PreferredFit `json:"preferred_fit,omitempty" binding:"omitempty,oneof=slim regular relaxed"`
	PreferredSize *string       `json:"preferred_size,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
}

// Apply merges the patch into f
func (fp FitProfilePatch) Apply(f *FitProfile) {
	if fp.Height != nil {
		f.Height = *fp.Height
	}
	if fp.Weight != nil {
		f.Weight = *fp.Weight
	}
	if fp.Chest != nil {
		f.Chest = *fp.Chest
	}
	if fp.Waist != nil {
		f.Waist = *fp.Waist
	}
	if fp.Hips != nil {
		f.Hips = *fp.Hips
	}
	if fp.PreferredFit != nil {
		f.PreferredFit = *fp.PreferredFit
	}
	if fp.PreferredSize != nil {
		f.PreferredSize = *fp.PreferredSize
	}
	if fp.Notes != nil {
		f.Notes = *fp.Notes
	}
}

// Columns maps the set fields to their column names for gorm Updates
func (fp FitProfilePatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if fp.Height != nil {
		cols["height"] = *fp.Height
	}
	if fp.Weight != nil {
		cols["weight"] = *fp.Weight
	}
	if fp.Chest != nil {
		cols["chest"] = *fp.Chest
	}
	if fp.Waist != nil {
		cols["waist"] = *fp.Waist
	}
	if fp.Hips != nil {
		cols["hips"] = *fp.Hips
	}
	if fp.PreferredFit != nil {
		cols["preferred_fit"] = string(*fp.PreferredFit)
	}
	if fp.PreferredSize != nil {
		cols["preferred_size"] = *fp.PreferredSize
	}
	if fp.Notes != nil {
		cols["notes"] = *fp.Notes
	}
	return cols
}
