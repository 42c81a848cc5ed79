package announcement

import "time"

type Announcement struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ClubID    string    `gorm:"type:uuid;not null;index"`
	CreatedBy string    `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"size:200;not null"`
	Body      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type UpdateInput struct {
	Title string
	Body  string
}
