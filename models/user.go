package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FirstName      string    `gorm:"size:50;not null" json:"firstName"`
	LastName       string    `gorm:"size:50;not null" json:"lastName"`
	Username       string    `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Email          string    `gorm:"size:256;not null;uniqueIndex" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Spots   []Spot   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews []Review `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
