package dto

import "time"

type ReviewRequest struct {
	Review string   `json:"review" validate:"notblank"`
	Stars  *float64 `json:"stars" validate:"required,gte=1,lte=5"`
}

func (ReviewRequest) Messages() map[string]string {
	return map[string]string{
		"review": "Review text is required",
		"stars":  "Stars must be from 1 to 5",
	}
}

type ReviewImageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func (ReviewImageRequest) Messages() map[string]string {
	return map[string]string{"url": "A valid image url is required"}
}

type ReviewImageView struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

type ReviewView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	SpotID    uint      `json:"spotId"`
	Review    string    `json:"review"`
	Stars     float64   `json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReviewDetail struct {
	ReviewView
	User         Profile           `json:"User"`
	Spot         *ReviewSpot       `json:"Spot,omitempty"`
	ReviewImages []ReviewImageView `json:"ReviewImages"`
}

type ReviewList struct {
	Reviews []ReviewDetail `json:"Reviews"`
}
