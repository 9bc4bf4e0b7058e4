package models

import "time"

// DefaultTimezone is assumed whenever a user has no explicit IANA zone.
const DefaultTimezone = "America/Sao_Paulo"

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Timezone  string    `gorm:"default:'America/Sao_Paulo'" json:"timezone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// EffectiveTimezone returns the user's zone, falling back to the default.
func (u *User) EffectiveTimezone() string {
	if u.Timezone == "" {
		return DefaultTimezone
	}
	return u.Timezone
}

// IsValid checks the minimum required fields.
func (u *User) IsValid() bool {
	return u.Name != ""
}
