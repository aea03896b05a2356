package models

import "time"

// Project groups schedule tasks and belongs to one organization.
type Project struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	OrgID     string    `gorm:"type:varchar(64);index;not null" json:"orgId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
