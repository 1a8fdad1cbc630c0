package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/krishkalaria12/spot-serve/models"
)

type ReviewRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ListBySpot(ctx context.Context, spotID uint) ([]models.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Review, error)
	// Create inserts review unless the user already reviewed the spot, in
	// which case it returns ErrDuplicate.
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error

	Images(ctx context.Context, reviewIDs []uint) ([]models.ReviewImage, error)
	// AddImage inserts img unless its review already has max images, in
	// which case it returns ErrLimitReached.
	AddImage(ctx context.Context, img *models.ReviewImage, max int) error
	GetImage(ctx context.Context, id uint) (*models.ReviewImage, error)
	DeleteImage(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, fmt.Errorf("ReviewRepository.GetByID: %w", translate(err))
	}
	return &review, nil
}

func (r *reviewRepository) ListBySpot(ctx context.Context, spotID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("spot_id = ?", spotID).Order("created_at DESC, id DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("ReviewRepository.ListBySpot: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("ReviewRepository.ListByUser: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.Review{}).
			Where("user_id = ? AND spot_id = ?", review.UserID, review.SpotID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicate
		}
		// a concurrent insert loses on the unique index instead
		return tx.Create(review).Error
	})
	if err != nil {
		return fmt.Errorf("ReviewRepository.Create: %w", translate(err))
	}
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		return fmt.Errorf("ReviewRepository.Update: %w", translate(err))
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return fmt.Errorf("ReviewRepository.Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ReviewRepository.Delete: %w", ErrNotFound)
	}
	return nil
}

func (r *reviewRepository) Images(ctx context.Context, reviewIDs []uint) ([]models.ReviewImage, error) {
	if len(reviewIDs) == 0 {
		return nil, nil
	}
	var images []models.ReviewImage
	err := r.db.WithContext(ctx).Where("review_id IN ?", reviewIDs).Order("review_id, id").Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("ReviewRepository.Images: %w", err)
	}
	return images, nil
}

func (r *reviewRepository) AddImage(ctx context.Context, img *models.ReviewImage, max int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock the parent review so concurrent inserts count serially
		var review models.Review
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&review, img.ReviewID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.ReviewImage{}).Where("review_id = ?", img.ReviewID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(max) {
			return ErrLimitReached
		}
		return tx.Create(img).Error
	})
	if err != nil {
		return fmt.Errorf("ReviewRepository.AddImage: %w", translate(err))
	}
	return nil
}

func (r *reviewRepository) GetImage(ctx context.Context, id uint) (*models.ReviewImage, error) {
	var img models.ReviewImage
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, fmt.Errorf("ReviewRepository.GetImage: %w", translate(err))
	}
	return &img, nil
}

func (r *reviewRepository) DeleteImage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ReviewImage{}, id)
	if res.Error != nil {
		return fmt.Errorf("ReviewRepository.DeleteImage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ReviewRepository.DeleteImage: %w", ErrNotFound)
	}
	return nil
}
