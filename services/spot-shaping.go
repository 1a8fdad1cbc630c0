package services

import (
	"strconv"

	"github.com/krishkalaria12/spot-serve/dto"
	"github.com/krishkalaria12/spot-serve/models"
	"github.com/krishkalaria12/spot-serve/repositories"
)

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// averageStars is 0 for a spot without reviews.
func averageStars(stats repositories.ReviewStats) float64 {
	if stats.Count == 0 {
		return 0
	}
	return stats.Sum / float64(stats.Count)
}

// previewURL returns the url of the first preview image, or NoPreviewImage.
func previewURL(images []models.SpotImage) string {
	for _, img := range images {
		if img.Preview {
			return img.URL
		}
	}
	return NoPreviewImage
}

func groupSpotImages(images []models.SpotImage) map[uint][]models.SpotImage {
	grouped := make(map[uint][]models.SpotImage)
	for _, img := range images {
		grouped[img.SpotID] = append(grouped[img.SpotID], img)
	}
	return grouped
}

func spotView(s models.Spot) dto.SpotView {
	return dto.SpotView{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Address:     s.Address,
		City:        s.City,
		State:       s.State,
		Country:     s.Country,
		Lat:         formatCoord(s.Lat),
		Lng:         formatCoord(s.Lng),
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func spotSummary(s models.Spot, images []models.SpotImage, stats repositories.ReviewStats) dto.SpotSummary {
	return dto.SpotSummary{
		SpotView:     spotView(s),
		AvgRating:    formatRating(averageStars(stats)),
		PreviewImage: previewURL(images),
	}
}

func reviewSpot(s models.Spot, images []models.SpotImage) *dto.ReviewSpot {
	return &dto.ReviewSpot{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Address:      s.Address,
		City:         s.City,
		State:        s.State,
		Country:      s.Country,
		Lat:          formatCoord(s.Lat),
		Lng:          formatCoord(s.Lng),
		Name:         s.Name,
		Price:        s.Price,
		PreviewImage: previewURL(images),
	}
}

func spotImageView(img models.SpotImage) dto.SpotImageView {
	return dto.SpotImageView{ID: img.ID, URL: img.URL, Preview: img.Preview}
}
