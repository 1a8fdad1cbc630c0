// Package memory implements the repository interfaces over in-process maps.
// It mirrors the constraints of the Postgres schema (unique usernames,
// emails and reviews per spot, one preview per spot, cascading deletes) and
// backs the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/krishkalaria12/spot-serve/models"
	"github.com/krishkalaria12/spot-serve/repositories"
)

type Store struct {
	mu     sync.Mutex
	nextID uint

	users        map[uint]models.User
	spots        map[uint]models.Spot
	spotImages   map[uint]models.SpotImage
	reviews      map[uint]models.Review
	reviewImages map[uint]models.ReviewImage
}

func NewStore() *Store {
	return &Store{
		users:        map[uint]models.User{},
		spots:        map[uint]models.Spot{},
		spotImages:   map[uint]models.SpotImage{},
		reviews:      map[uint]models.Review{},
		reviewImages: map[uint]models.ReviewImage{},
	}
}

func (s *Store) Users() repositories.UserRepository     { return userRepo{s} }
func (s *Store) Spots() repositories.SpotRepository     { return spotRepo{s} }
func (s *Store) Reviews() repositories.ReviewRepository { return reviewRepo{s} }

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func sortedKeys[T any](m map[uint]T) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now()
	u.ID, u.CreatedAt, u.UpdatedAt = r.s.id(), now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.match(func(u models.User) bool { return u.Username == username })
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.match(func(u models.User) bool { return u.Email == email })
}

func (r userRepo) GetByCredential(ctx context.Context, credential string) (*models.User, error) {
	return r.match(func(u models.User) bool { return u.Username == credential || u.Email == credential })
}

func (r userRepo) match(pred func(models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; pred(u) {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r userRepo) ListByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := idSet(ids)
	var out []models.User
	for _, id := range sortedKeys(r.s.users) {
		if want[id] {
			out = append(out, r.s.users[id])
		}
	}
	return out, nil
}

type spotRepo struct{ s *Store }

func (r spotRepo) Create(_ context.Context, spot *models.Spot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	spot.ID, spot.CreatedAt, spot.UpdatedAt = r.s.id(), now, now
	r.s.spots[spot.ID] = *spot
	return nil
}

func (r spotRepo) GetByID(_ context.Context, id uint) (*models.Spot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	spot, ok := r.s.spots[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &spot, nil
}

func (r spotRepo) ListByIDs(_ context.Context, ids []uint) ([]models.Spot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := idSet(ids)
	var out []models.Spot
	for _, id := range sortedKeys(r.s.spots) {
		if want[id] {
			out = append(out, r.s.spots[id])
		}
	}
	return out, nil
}

func (r spotRepo) List(_ context.Context, f repositories.SpotFilter) ([]models.Spot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	atLeast := func(v float64, bound *float64) bool { return bound == nil || v >= *bound }
	atMost := func(v float64, bound *float64) bool { return bound == nil || v <= *bound }

	var matched []models.Spot
	for _, id := range sortedKeys(r.s.spots) {
		spot := r.s.spots[id]
		if f.OwnerID != nil && spot.OwnerID != *f.OwnerID {
			continue
		}
		if !atLeast(spot.Lat, f.MinLat) || !atMost(spot.Lat, f.MaxLat) ||
			!atLeast(spot.Lng, f.MinLng) || !atMost(spot.Lng, f.MaxLng) ||
			!atLeast(spot.Price, f.MinPrice) || !atMost(spot.Price, f.MaxPrice) {
			continue
		}
		matched = append(matched, spot)
	}

	if f.Limit <= 0 {
		return matched, nil
	}
	if f.Offset >= len(matched) {
		return nil, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], nil
}

func (r spotRepo) Update(_ context.Context, spot *models.Spot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.spots[spot.ID]; !ok {
		return repositories.ErrNotFound
	}
	spot.UpdatedAt = time.Now()
	r.s.spots[spot.ID] = *spot
	return nil
}

func (r spotRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.spots[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.spots, id)
	for imgID, img := range r.s.spotImages {
		if img.SpotID == id {
			delete(r.s.spotImages, imgID)
		}
	}
	for reviewID, review := range r.s.reviews {
		if review.SpotID == id {
			r.s.deleteReview(reviewID)
		}
	}
	return nil
}

func (r spotRepo) Images(_ context.Context, spotIDs []uint) ([]models.SpotImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := idSet(spotIDs)
	var out []models.SpotImage
	for _, id := range sortedKeys(r.s.spotImages) {
		if img := r.s.spotImages[id]; want[img.SpotID] {
			out = append(out, img)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SpotID < out[j].SpotID })
	return out, nil
}

func (r spotRepo) ReviewStats(_ context.Context, spotIDs []uint) (map[uint]repositories.ReviewStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := idSet(spotIDs)
	stats := make(map[uint]repositories.ReviewStats, len(spotIDs))
	for _, review := range r.s.reviews {
		if !want[review.SpotID] {
			continue
		}
		st := stats[review.SpotID]
		st.SpotID = review.SpotID
		st.Count++
		st.Sum += review.Stars
		stats[review.SpotID] = st
	}
	return stats, nil
}

func (r spotRepo) AddImage(_ context.Context, img *models.SpotImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.spots[img.SpotID]; !ok {
		return repositories.ErrNotFound
	}
	if img.Preview {
		for id, existing := range r.s.spotImages {
			if existing.SpotID == img.SpotID && existing.Preview {
				existing.Preview = false
				r.s.spotImages[id] = existing
			}
		}
	}
	now := time.Now()
	img.ID, img.CreatedAt, img.UpdatedAt = r.s.id(), now, now
	r.s.spotImages[img.ID] = *img
	return nil
}

func (r spotRepo) GetImage(_ context.Context, id uint) (*models.SpotImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	img, ok := r.s.spotImages[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &img, nil
}

func (r spotRepo) DeleteImage(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.spotImages[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.spotImages, id)
	return nil
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) GetByID(_ context.Context, id uint) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &review, nil
}

func (r reviewRepo) ListBySpot(_ context.Context, spotID uint) ([]models.Review, error) {
	return r.filter(func(rv models.Review) bool { return rv.SpotID == spotID }), nil
}

func (r reviewRepo) ListByUser(_ context.Context, userID uint) ([]models.Review, error) {
	return r.filter(func(rv models.Review) bool { return rv.UserID == userID }), nil
}

// filter returns matching reviews newest first.
func (r reviewRepo) filter(pred func(models.Review) bool) []models.Review {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Review
	keys := sortedKeys(r.s.reviews)
	for i := len(keys) - 1; i >= 0; i-- {
		if rv := r.s.reviews[keys[i]]; pred(rv) {
			out = append(out, rv)
		}
	}
	return out
}

func (r reviewRepo) Create(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.spots[review.SpotID]; !ok {
		return repositories.ErrNotFound
	}
	for _, existing := range r.s.reviews {
		if existing.UserID == review.UserID && existing.SpotID == review.SpotID {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now()
	review.ID, review.CreatedAt, review.UpdatedAt = r.s.id(), now, now
	r.s.reviews[review.ID] = *review
	return nil
}

func (r reviewRepo) Update(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[review.ID]; !ok {
		return repositories.ErrNotFound
	}
	review.UpdatedAt = time.Now()
	r.s.reviews[review.ID] = *review
	return nil
}

func (r reviewRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	r.s.deleteReview(id)
	return nil
}

// deleteReview removes a review and its images. Callers hold mu.
func (s *Store) deleteReview(id uint) {
	delete(s.reviews, id)
	for imgID, img := range s.reviewImages {
		if img.ReviewID == id {
			delete(s.reviewImages, imgID)
		}
	}
}

func (r reviewRepo) Images(_ context.Context, reviewIDs []uint) ([]models.ReviewImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := idSet(reviewIDs)
	var out []models.ReviewImage
	for _, id := range sortedKeys(r.s.reviewImages) {
		if img := r.s.reviewImages[id]; want[img.ReviewID] {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r reviewRepo) AddImage(_ context.Context, img *models.ReviewImage, max int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[img.ReviewID]; !ok {
		return repositories.ErrNotFound
	}
	count := 0
	for _, existing := range r.s.reviewImages {
		if existing.ReviewID == img.ReviewID {
			count++
		}
	}
	if count >= max {
		return repositories.ErrLimitReached
	}
	now := time.Now()
	img.ID, img.CreatedAt, img.UpdatedAt = r.s.id(), now, now
	r.s.reviewImages[img.ID] = *img
	return nil
}

func (r reviewRepo) GetImage(_ context.Context, id uint) (*models.ReviewImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	img, ok := r.s.reviewImages[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &img, nil
}

func (r reviewRepo) DeleteImage(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviewImages[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.reviewImages, id)
	return nil
}
