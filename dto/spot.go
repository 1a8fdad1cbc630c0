package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SpotRequest is the body of create and update spot requests. Numeric fields
// are pointers so that a missing value is distinguishable from zero.
type SpotRequest struct {
	Address     string   `json:"address" validate:"notblank"`
	City        string   `json:"city" validate:"notblank"`
	State       string   `json:"state" validate:"notblank"`
	Country     string   `json:"country" validate:"notblank"`
	Lat         *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng         *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Name        string   `json:"name" validate:"notblank,max=50"`
	Description string   `json:"description" validate:"notblank"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=2000"`
}

func (SpotRequest) Messages() map[string]string {
	return map[string]string{
		"address":     "Street address is required",
		"city":        "City is required",
		"state":       "State is required",
		"country":     "Country is required",
		"lat":         "Latitude must be within -90 and 90",
		"lng":         "Longitude must be within -180 and 180",
		"name":        "Name must be less than 50 characters",
		"description": "Description is required",
		"price":       "Price per day must be between 0 and 2000",
	}
}

// SpotQuery is the raw query string of the spot listing.
type SpotQuery struct {
	Page     string `query:"page"`
	Size     string `query:"size"`
	MinLat   string `query:"minLat"`
	MaxLat   string `query:"maxLat"`
	MinLng   string `query:"minLng"`
	MaxLng   string `query:"maxLng"`
	MinPrice string `query:"minPrice"`
	MaxPrice string `query:"maxPrice"`
}

var ErrNotBool = errors.New("preview must be a boolean")

// FlexBool decodes a JSON bool or a string such as "true", "false", "1", "0".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrNotBool, err)
	}
	parsed, err := ParseFlexBool(s)
	if err != nil {
		return err
	}
	*b = FlexBool(parsed)
	return nil
}

// ParseFlexBool coerces form and JSON string values to a bool. The empty
// string is false.
func ParseFlexBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("%w, got %q", ErrNotBool, s)
}

type SpotImageRequest struct {
	URL     string   `json:"url" validate:"required,url"`
	Preview FlexBool `json:"preview"`
}

func (SpotImageRequest) Messages() map[string]string {
	return map[string]string{"url": "A valid image url is required"}
}

// SpotView is a spot with coordinates rendered to six decimals.
type SpotView struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"ownerId"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Lat         string    `json:"lat"`
	Lng         string    `json:"lng"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SpotSummary struct {
	SpotView
	AvgRating    string `json:"avgRating"`
	PreviewImage string `json:"previewImage"`
}

type SpotList struct {
	Spots []SpotSummary `json:"Spots"`
	Page  int           `json:"page,omitempty"`
	Size  int           `json:"size,omitempty"`
}

type SpotImageView struct {
	ID      uint   `json:"id"`
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

type SpotDetail struct {
	SpotView
	NumReviews    int64           `json:"numReviews"`
	AvgStarRating string          `json:"avgStarRating"`
	PreviewImage  string          `json:"previewImage"`
	SpotImages    []SpotImageView `json:"SpotImages"`
	Owner         Profile         `json:"Owner"`
}

// ReviewSpot is the spot projection attached to a user's own reviews.
type ReviewSpot struct {
	ID           uint    `json:"id"`
	OwnerID      uint    `json:"ownerId"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	Lat          string  `json:"lat"`
	Lng          string  `json:"lng"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	PreviewImage string  `json:"previewImage"`
}
