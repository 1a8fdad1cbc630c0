package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/dto"
	"github.com/krishkalaria12/spot-serve/metrics"
	"github.com/krishkalaria12/spot-serve/models"
	"github.com/krishkalaria12/spot-serve/repositories"
	"github.com/krishkalaria12/spot-serve/validation"
)

type ReviewService interface {
	ListForSpot(ctx context.Context, spotID uint) (*dto.ReviewList, error)
	ListForUser(ctx context.Context, userID uint) (*dto.ReviewList, error)
	Create(ctx context.Context, userID, spotID uint, req dto.ReviewRequest) (*dto.ReviewView, error)
	Update(ctx context.Context, userID, reviewID uint, req dto.ReviewRequest) (*dto.ReviewView, error)
	Delete(ctx context.Context, userID, reviewID uint) error
	AddImage(ctx context.Context, userID, reviewID uint, req dto.ReviewImageRequest) (*dto.ReviewImageView, error)
	DeleteImage(ctx context.Context, userID, imageID uint) error
}

type reviewService struct {
	reviews repositories.ReviewRepository
	spots   repositories.SpotRepository
	users   repositories.UserRepository
}

func NewReviewService(reviews repositories.ReviewRepository, spots repositories.SpotRepository, users repositories.UserRepository) ReviewService {
	return &reviewService{reviews: reviews, spots: spots, users: users}
}

func (s *reviewService) ListForSpot(ctx context.Context, spotID uint) (*dto.ReviewList, error) {
	if _, err := s.spot(ctx, spotID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.ListForSpot: %w", err)
	}
	details, err := s.detail(ctx, reviews, false)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.ListForSpot: %w", err)
	}
	return &dto.ReviewList{Reviews: details}, nil
}

func (s *reviewService) ListForUser(ctx context.Context, userID uint) (*dto.ReviewList, error) {
	reviews, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.ListForUser: %w", err)
	}
	details, err := s.detail(ctx, reviews, true)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.ListForUser: %w", err)
	}
	return &dto.ReviewList{Reviews: details}, nil
}

// detail loads authors and images for reviews in batches, and the reviewed
// spots with their previews when withSpot is set.
func (s *reviewService) detail(ctx context.Context, reviews []models.Review, withSpot bool) ([]dto.ReviewDetail, error) {
	out := make([]dto.ReviewDetail, 0, len(reviews))
	if len(reviews) == 0 {
		return out, nil
	}

	reviewIDs := make([]uint, 0, len(reviews))
	userIDs := make([]uint, 0, len(reviews))
	spotIDs := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		reviewIDs = append(reviewIDs, r.ID)
		userIDs = append(userIDs, r.UserID)
		spotIDs = append(spotIDs, r.SpotID)
	}

	users, err := s.users.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	profiles := make(map[uint]dto.Profile, len(users))
	for _, u := range users {
		profiles[u.ID] = dto.NewProfile(u)
	}

	images, err := s.reviews.Images(ctx, reviewIDs)
	if err != nil {
		return nil, err
	}
	imagesByReview := make(map[uint][]dto.ReviewImageView)
	for _, img := range images {
		imagesByReview[img.ReviewID] = append(imagesByReview[img.ReviewID], dto.ReviewImageView{ID: img.ID, URL: img.URL})
	}

	var spotsByID map[uint]*dto.ReviewSpot
	if withSpot {
		spotsByID, err = s.reviewSpots(ctx, spotIDs)
		if err != nil {
			return nil, err
		}
	}

	for _, r := range reviews {
		d := dto.ReviewDetail{
			ReviewView:   reviewView(r),
			User:         profiles[r.UserID],
			ReviewImages: imagesByReview[r.ID],
		}
		if d.ReviewImages == nil {
			d.ReviewImages = []dto.ReviewImageView{}
		}
		if withSpot {
			d.Spot = spotsByID[r.SpotID]
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *reviewService) reviewSpots(ctx context.Context, ids []uint) (map[uint]*dto.ReviewSpot, error) {
	spots, err := s.spots.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	images, err := s.spots.Images(ctx, ids)
	if err != nil {
		return nil, err
	}
	byspot := groupSpotImages(images)
	out := make(map[uint]*dto.ReviewSpot, len(spots))
	for _, spot := range spots {
		out[spot.ID] = reviewSpot(spot, byspot[spot.ID])
	}
	return out, nil
}

func (s *reviewService) Create(ctx context.Context, userID, spotID uint, req dto.ReviewRequest) (*dto.ReviewView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.spot(ctx, spotID); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID: userID,
		SpotID: spotID,
		Review: strings.TrimSpace(req.Review),
		Stars:  *req.Stars,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, apperr.Conflict(MsgReviewExists)
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperr.NotFound(MsgSpotNotFound)
		}
		return nil, fmt.Errorf("ReviewService.Create: %w", err)
	}
	view := reviewView(*review)
	return &view, nil
}

func (s *reviewService) Update(ctx context.Context, userID, reviewID uint, req dto.ReviewRequest) (*dto.ReviewView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	review, err := s.authored(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Review = strings.TrimSpace(req.Review)
	review.Stars = *req.Stars
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("ReviewService.Update: %w", err)
	}
	view := reviewView(*review)
	return &view, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID uint) error {
	if _, err := s.authored(ctx, userID, reviewID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(MsgReviewNotFound)
		}
		return fmt.Errorf("ReviewService.Delete: %w", err)
	}
	return nil
}

func (s *reviewService) AddImage(ctx context.Context, userID, reviewID uint, req dto.ReviewImageRequest) (*dto.ReviewImageView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.authored(ctx, userID, reviewID); err != nil {
		return nil, err
	}

	img := &models.ReviewImage{ReviewID: reviewID, URL: req.URL}
	if err := s.reviews.AddImage(ctx, img, models.MaxReviewImages); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLimitReached):
			metrics.ReviewImageLimitHits.Inc()
			return nil, apperr.ForbiddenMsg(MsgImageLimit)
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperr.NotFound(MsgReviewNotFound)
		}
		return nil, fmt.Errorf("ReviewService.AddImage: %w", err)
	}
	return &dto.ReviewImageView{ID: img.ID, URL: img.URL}, nil
}

func (s *reviewService) DeleteImage(ctx context.Context, userID, imageID uint) error {
	img, err := s.reviews.GetImage(ctx, imageID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(MsgReviewImageMissing)
	}
	if err != nil {
		return fmt.Errorf("ReviewService.DeleteImage: %w", err)
	}
	if _, err := s.authored(ctx, userID, img.ReviewID); err != nil {
		return err
	}
	if err := s.reviews.DeleteImage(ctx, imageID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(MsgReviewImageMissing)
		}
		return fmt.Errorf("ReviewService.DeleteImage: %w", err)
	}
	return nil
}

func (s *reviewService) spot(ctx context.Context, id uint) (*models.Spot, error) {
	spot, err := s.spots.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFound(MsgSpotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ReviewService.spot: %w", err)
	}
	return spot, nil
}

// authored loads a review and checks that userID wrote it.
func (s *reviewService) authored(ctx context.Context, userID, reviewID uint) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFound(MsgReviewNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ReviewService.authored: %w", err)
	}
	if review.UserID != userID {
		return nil, apperr.Forbidden()
	}
	return review, nil
}

func reviewView(r models.Review) dto.ReviewView {
	return dto.ReviewView{
		ID:        r.ID,
		UserID:    r.UserID,
		SpotID:    r.SpotID,
		Review:    r.Review,
		Stars:     r.Stars,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
