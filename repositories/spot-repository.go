package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/krishkalaria12/spot-serve/models"
)

// SpotFilter narrows a spot listing. Nil bounds are not applied.
type SpotFilter struct {
	OwnerID  *uint
	MinLat   *float64
	MaxLat   *float64
	MinLng   *float64
	MaxLng   *float64
	MinPrice *float64
	MaxPrice *float64
	// Limit <= 0 means no limit.
	Limit  int
	Offset int
}

// ReviewStats is the count and star total of a spot's reviews.
type ReviewStats struct {
	SpotID uint
	Count  int64
	Sum    float64
}

type SpotRepository interface {
	Create(ctx context.Context, spot *models.Spot) error
	GetByID(ctx context.Context, id uint) (*models.Spot, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Spot, error)
	List(ctx context.Context, filter SpotFilter) ([]models.Spot, error)
	Update(ctx context.Context, spot *models.Spot) error
	Delete(ctx context.Context, id uint) error

	// Images returns the images of the given spots ordered by spot and id.
	Images(ctx context.Context, spotIDs []uint) ([]models.SpotImage, error)
	ReviewStats(ctx context.Context, spotIDs []uint) (map[uint]ReviewStats, error)

	// AddImage inserts img. A preview image demotes the spot's current
	// preview in the same transaction.
	AddImage(ctx context.Context, img *models.SpotImage) error
	GetImage(ctx context.Context, id uint) (*models.SpotImage, error)
	DeleteImage(ctx context.Context, id uint) error
}

type spotRepository struct {
	db *gorm.DB
}

func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) Create(ctx context.Context, spot *models.Spot) error {
	if err := r.db.WithContext(ctx).Create(spot).Error; err != nil {
		return fmt.Errorf("SpotRepository.Create: %w", translate(err))
	}
	return nil
}

func (r *spotRepository) GetByID(ctx context.Context, id uint) (*models.Spot, error) {
	var spot models.Spot
	if err := r.db.WithContext(ctx).First(&spot, id).Error; err != nil {
		return nil, fmt.Errorf("SpotRepository.GetByID: %w", translate(err))
	}
	return &spot, nil
}

func (r *spotRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Spot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var spots []models.Spot
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&spots).Error; err != nil {
		return nil, fmt.Errorf("SpotRepository.ListByIDs: %w", err)
	}
	return spots, nil
}

func (r *spotRepository) List(ctx context.Context, f SpotFilter) ([]models.Spot, error) {
	q := r.db.WithContext(ctx).Model(&models.Spot{})
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}
	if f.MinLat != nil {
		q = q.Where("lat >= ?", *f.MinLat)
	}
	if f.MaxLat != nil {
		q = q.Where("lat <= ?", *f.MaxLat)
	}
	if f.MinLng != nil {
		q = q.Where("lng >= ?", *f.MinLng)
	}
	if f.MaxLng != nil {
		q = q.Where("lng <= ?", *f.MaxLng)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var spots []models.Spot
	if err := q.Order("id").Find(&spots).Error; err != nil {
		return nil, fmt.Errorf("SpotRepository.List: %w", err)
	}
	return spots, nil
}

func (r *spotRepository) Update(ctx context.Context, spot *models.Spot) error {
	if err := r.db.WithContext(ctx).Save(spot).Error; err != nil {
		return fmt.Errorf("SpotRepository.Update: %w", translate(err))
	}
	return nil
}

func (r *spotRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Spot{}, id)
	if res.Error != nil {
		return fmt.Errorf("SpotRepository.Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("SpotRepository.Delete: %w", ErrNotFound)
	}
	return nil
}

func (r *spotRepository) Images(ctx context.Context, spotIDs []uint) ([]models.SpotImage, error) {
	if len(spotIDs) == 0 {
		return nil, nil
	}
	var images []models.SpotImage
	err := r.db.WithContext(ctx).
		Where("spot_id IN ?", spotIDs).
		Order("spot_id, id").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("SpotRepository.Images: %w", err)
	}
	return images, nil
}

func (r *spotRepository) ReviewStats(ctx context.Context, spotIDs []uint) (map[uint]ReviewStats, error) {
	stats := make(map[uint]ReviewStats, len(spotIDs))
	if len(spotIDs) == 0 {
		return stats, nil
	}

	var rows []ReviewStats
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("spot_id, COUNT(*) AS count, COALESCE(SUM(stars), 0) AS sum").
		Where("spot_id IN ?", spotIDs).
		Group("spot_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("SpotRepository.ReviewStats: %w", err)
	}
	for _, row := range rows {
		stats[row.SpotID] = row
	}
	return stats, nil
}

func (r *spotRepository) AddImage(ctx context.Context, img *models.SpotImage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock the parent spot so concurrent preview swaps run serially
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&models.Spot{}, img.SpotID).Error; err != nil {
			return err
		}
		if img.Preview {
			err := tx.Model(&models.SpotImage{}).
				Where("spot_id = ? AND preview = ?", img.SpotID, true).
				Update("preview", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(img).Error
	})
	if err != nil {
		return fmt.Errorf("SpotRepository.AddImage: %w", translate(err))
	}
	return nil
}

func (r *spotRepository) GetImage(ctx context.Context, id uint) (*models.SpotImage, error) {
	var img models.SpotImage
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, fmt.Errorf("SpotRepository.GetImage: %w", translate(err))
	}
	return &img, nil
}

func (r *spotRepository) DeleteImage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.SpotImage{}, id)
	if res.Error != nil {
		return fmt.Errorf("SpotRepository.DeleteImage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("SpotRepository.DeleteImage: %w", ErrNotFound)
	}
	return nil
}
