package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`

	Tasks []Task `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
