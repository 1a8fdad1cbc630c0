package models

import "time"

// MaxReviewImages is the number of images a single review may carry.
const MaxReviewImages = 10

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_spot" json:"userId"`
	SpotID    uint      `gorm:"not null;index;uniqueIndex:idx_reviews_user_spot" json:"spotId"`
	Review    string    `gorm:"type:text;not null" json:"review"`
	Stars     float64   `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ReviewImages []ReviewImage `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"reviewId"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Spot{}, &SpotImage{}, &Review{}, &ReviewImage{}}
}
