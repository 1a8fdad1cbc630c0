package models

import "time"

// Spot is a bookable listing. Images and reviews are loaded through the
// repository query methods, never through these association fields, which
// exist so that migrations create the cascading foreign keys.
type Spot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"ownerId"`
	Address     string    `gorm:"not null" json:"address"`
	City        string    `gorm:"not null" json:"city"`
	State       string    `gorm:"not null" json:"state"`
	Country     string    `gorm:"not null" json:"country"`
	Lat         float64   `gorm:"type:numeric(9,6);not null" json:"lat"`
	Lng         float64   `gorm:"type:numeric(10,6);not null" json:"lng"`
	Name        string    `gorm:"size:50;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null;check:price >= 0" json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	SpotImages []SpotImage `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Reviews    []Review    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Spot) TableName() string {
	return "spots"
}

// SpotImage belongs to a spot. The partial unique index allows a single
// preview image per spot.
type SpotImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SpotID    uint      `gorm:"not null;index;uniqueIndex:idx_spot_images_one_preview,where:preview = true" json:"spotId"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Preview   bool      `gorm:"not null;default:false" json:"preview"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SpotImage) TableName() string {
	return "spot_images"
}
