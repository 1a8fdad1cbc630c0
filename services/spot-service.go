package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/dto"
	"github.com/krishkalaria12/spot-serve/logging"
	"github.com/krishkalaria12/spot-serve/models"
	"github.com/krishkalaria12/spot-serve/repositories"
	"github.com/krishkalaria12/spot-serve/validation"
)

// Uploader stores an image and returns its public url.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

// Upload is an image file received from a client.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type SpotService interface {
	List(ctx context.Context, q dto.SpotQuery) (*dto.SpotList, error)
	ListOwned(ctx context.Context, ownerID uint) (*dto.SpotList, error)
	Get(ctx context.Context, id uint) (*dto.SpotDetail, error)
	Create(ctx context.Context, ownerID uint, req dto.SpotRequest) (*dto.SpotView, error)
	Update(ctx context.Context, userID, spotID uint, req dto.SpotRequest) (*dto.SpotView, error)
	Delete(ctx context.Context, userID, spotID uint) error
	AddImage(ctx context.Context, userID, spotID uint, req dto.SpotImageRequest) (*dto.SpotImageView, error)
	UploadImage(ctx context.Context, userID, spotID uint, file Upload, preview bool) (*dto.SpotImageView, error)
	DeleteImage(ctx context.Context, userID, imageID uint) error
}

type spotService struct {
	spots    repositories.SpotRepository
	users    repositories.UserRepository
	uploader Uploader
}

// NewSpotService builds the spot service. A nil uploader disables file
// uploads; images can still be attached by url.
func NewSpotService(spots repositories.SpotRepository, users repositories.UserRepository, uploader Uploader) SpotService {
	return &spotService{spots: spots, users: users, uploader: uploader}
}

func (s *spotService) List(ctx context.Context, q dto.SpotQuery) (*dto.SpotList, error) {
	filter, page, err := ParseSpotQuery(q)
	if err != nil {
		return nil, err
	}

	spots, err := s.spots.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("SpotService.List: %w", err)
	}
	summaries, err := s.summarize(ctx, spots)
	if err != nil {
		return nil, fmt.Errorf("SpotService.List: %w", err)
	}
	return &dto.SpotList{Spots: summaries, Page: page.Number, Size: page.Size}, nil
}

func (s *spotService) ListOwned(ctx context.Context, ownerID uint) (*dto.SpotList, error) {
	spots, err := s.spots.List(ctx, repositories.SpotFilter{OwnerID: &ownerID})
	if err != nil {
		return nil, fmt.Errorf("SpotService.ListOwned: %w", err)
	}
	summaries, err := s.summarize(ctx, spots)
	if err != nil {
		return nil, fmt.Errorf("SpotService.ListOwned: %w", err)
	}
	return &dto.SpotList{Spots: summaries}, nil
}

// summarize attaches preview and average rating to spots using one image
// query and one aggregate query for the whole page.
func (s *spotService) summarize(ctx context.Context, spots []models.Spot) ([]dto.SpotSummary, error) {
	ids := make([]uint, 0, len(spots))
	for _, spot := range spots {
		ids = append(ids, spot.ID)
	}

	images, err := s.spots.Images(ctx, ids)
	if err != nil {
		return nil, err
	}
	stats, err := s.spots.ReviewStats(ctx, ids)
	if err != nil {
		return nil, err
	}

	byspot := groupSpotImages(images)
	out := make([]dto.SpotSummary, 0, len(spots))
	for _, spot := range spots {
		out = append(out, spotSummary(spot, byspot[spot.ID], stats[spot.ID]))
	}
	return out, nil
}

func (s *spotService) Get(ctx context.Context, id uint) (*dto.SpotDetail, error) {
	spot, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.spots.Images(ctx, []uint{spot.ID})
	if err != nil {
		return nil, fmt.Errorf("SpotService.Get: %w", err)
	}
	stats, err := s.spots.ReviewStats(ctx, []uint{spot.ID})
	if err != nil {
		return nil, fmt.Errorf("SpotService.Get: %w", err)
	}
	owner, err := s.users.GetByID(ctx, spot.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("SpotService.Get: owner %d: %w", spot.OwnerID, err)
	}

	views := make([]dto.SpotImageView, 0, len(images))
	for _, img := range images {
		views = append(views, spotImageView(img))
	}
	st := stats[spot.ID]
	return &dto.SpotDetail{
		SpotView:      spotView(*spot),
		NumReviews:    st.Count,
		AvgStarRating: formatRating(averageStars(st)),
		PreviewImage:  previewURL(images),
		SpotImages:    views,
		Owner:         dto.NewProfile(*owner),
	}, nil
}

func (s *spotService) Create(ctx context.Context, ownerID uint, req dto.SpotRequest) (*dto.SpotView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	spot := &models.Spot{OwnerID: ownerID}
	applySpotRequest(spot, req)
	if err := s.spots.Create(ctx, spot); err != nil {
		return nil, fmt.Errorf("SpotService.Create: %w", err)
	}

	logging.Info().Uint("spot_id", spot.ID).Uint("owner_id", ownerID).Msg("spot created")
	view := spotView(*spot)
	return &view, nil
}

func (s *spotService) Update(ctx context.Context, userID, spotID uint, req dto.SpotRequest) (*dto.SpotView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	spot, err := s.owned(ctx, userID, spotID)
	if err != nil {
		return nil, err
	}

	applySpotRequest(spot, req)
	if err := s.spots.Update(ctx, spot); err != nil {
		return nil, fmt.Errorf("SpotService.Update: %w", err)
	}
	view := spotView(*spot)
	return &view, nil
}

func (s *spotService) Delete(ctx context.Context, userID, spotID uint) error {
	if _, err := s.owned(ctx, userID, spotID); err != nil {
		return err
	}
	if err := s.spots.Delete(ctx, spotID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(MsgSpotNotFound)
		}
		return fmt.Errorf("SpotService.Delete: %w", err)
	}

	logging.Info().Uint("spot_id", spotID).Msg("spot deleted")
	return nil
}

func (s *spotService) AddImage(ctx context.Context, userID, spotID uint, req dto.SpotImageRequest) (*dto.SpotImageView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, spotID); err != nil {
		return nil, err
	}
	return s.attach(ctx, spotID, req.URL, bool(req.Preview))
}

func (s *spotService) UploadImage(ctx context.Context, userID, spotID uint, file Upload, preview bool) (*dto.SpotImageView, error) {
	if s.uploader == nil {
		return nil, apperr.Validation(map[string]string{"file": "Image uploads are not enabled"})
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, apperr.Validation(map[string]string{"file": "File must be an image"})
	}
	if _, err := s.owned(ctx, userID, spotID); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, file.Name, file.ContentType, file.Body)
	if err != nil {
		return nil, fmt.Errorf("SpotService.UploadImage: %w", err)
	}
	return s.attach(ctx, spotID, url, preview)
}

func (s *spotService) attach(ctx context.Context, spotID uint, url string, preview bool) (*dto.SpotImageView, error) {
	img := &models.SpotImage{SpotID: spotID, URL: url, Preview: preview}
	if err := s.spots.AddImage(ctx, img); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound(MsgSpotNotFound)
		}
		return nil, fmt.Errorf("SpotService.AddImage: %w", err)
	}
	view := spotImageView(*img)
	return &view, nil
}

func (s *spotService) DeleteImage(ctx context.Context, userID, imageID uint) error {
	img, err := s.spots.GetImage(ctx, imageID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(MsgSpotImageNotFound)
	}
	if err != nil {
		return fmt.Errorf("SpotService.DeleteImage: %w", err)
	}
	if _, err := s.owned(ctx, userID, img.SpotID); err != nil {
		return err
	}
	if err := s.spots.DeleteImage(ctx, imageID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(MsgSpotImageNotFound)
		}
		return fmt.Errorf("SpotService.DeleteImage: %w", err)
	}
	return nil
}

func (s *spotService) find(ctx context.Context, id uint) (*models.Spot, error) {
	spot, err := s.spots.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFound(MsgSpotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("SpotService.find: %w", err)
	}
	return spot, nil
}

// owned loads a spot and checks that userID owns it.
func (s *spotService) owned(ctx context.Context, userID, spotID uint) (*models.Spot, error) {
	spot, err := s.find(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if spot.OwnerID != userID {
		return nil, apperr.Forbidden()
	}
	return spot, nil
}

func applySpotRequest(spot *models.Spot, req dto.SpotRequest) {
	spot.Address = strings.TrimSpace(req.Address)
	spot.City = strings.TrimSpace(req.City)
	spot.State = strings.TrimSpace(req.State)
	spot.Country = strings.TrimSpace(req.Country)
	spot.Lat = *req.Lat
	spot.Lng = *req.Lng
	spot.Name = strings.TrimSpace(req.Name)
	spot.Description = strings.TrimSpace(req.Description)
	spot.Price = *req.Price
}
