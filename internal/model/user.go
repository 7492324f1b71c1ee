package model

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"uniqueIndex"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Plan         Plan   `json:"plan"`

	// Dashboard preferences, purely cosmetic.
	SortBy string `json:"sort_by"`
	View   string `json:"view"`
}

func (u *User) IsPro() bool {
	return u.Plan == PlanPro
}

func (u *User) EnsureDefaults() {
	if u.Plan == "" {
		u.Plan = PlanFree
	}
	if u.SortBy == "" {
		u.SortBy = "date"
	}
	if u.View == "" {
		u.View = "grid"
	}
}
