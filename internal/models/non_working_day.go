package models

import "time"

// NonWorkingDay is a registered holiday. The validator treats these dates
// like weekends: blocked unless the user explicitly confirms the encaixe.
type NonWorkingDay struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        string    `gorm:"type:varchar(10);uniqueIndex" json:"date"` // YYYY-MM-DD
	Year        int       `gorm:"index" json:"year"`
	Month       int       `gorm:"index" json:"month"`
	Day         int       `json:"day"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NonWorkingDay) TableName() string {
	return "non_working_days"
}
