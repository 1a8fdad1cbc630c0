package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/krishkalaria12/spot-serve/models"
)

// openTestDB connects to TEST_DATABASE_URL, migrating a fresh schema. Tests
// using it are skipped when the variable is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := db.Migrator().DropTable(&models.ReviewImage{}, &models.Review{}, &models.SpotImage{}, &models.Spot{}, &models.User{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, repo UserRepository, name string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName:      "Demo",
		LastName:       name,
		Username:       name,
		Email:          fmt.Sprintf("%s@example.com", name),
		HashedPassword: "hash",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedSpot(t *testing.T, repo SpotRepository, ownerID uint, price float64) *models.Spot {
	t.Helper()
	s := &models.Spot{
		OwnerID: ownerID, Address: "1 Main St", City: "Portland", State: "OR", Country: "USA",
		Lat: 45, Lng: -122, Name: "Cabin", Description: "Cozy", Price: price,
	}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("create spot: %v", err)
	}
	return s
}

func TestPostgresUserLookup(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "demo")

	byName, err := users.GetByCredential(ctx, "demo")
	if err != nil || byName.ID != u.ID {
		t.Fatalf("lookup by username: %v", err)
	}
	byEmail, err := users.GetByCredential(ctx, "demo@example.com")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("lookup by email: %v", err)
	}
	if _, err := users.GetByCredential(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	dup := &models.User{FirstName: "x", LastName: "y", Username: "demo", Email: "other@example.com", HashedPassword: "h"}
	if err := users.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPostgresSpotFilterAndStats(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	spots := NewSpotRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "owner")
	guest := seedUser(t, users, "guest")
	cheap := seedSpot(t, spots, owner.ID, 50)
	pricey := seedSpot(t, spots, owner.ID, 500)

	minPrice := 100.0
	list, err := spots.List(ctx, SpotFilter{MinPrice: &minPrice})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != pricey.ID {
		t.Fatalf("expected only the pricey spot, got %+v", list)
	}

	if err := reviews.Create(ctx, &models.Review{UserID: guest.ID, SpotID: cheap.ID, Review: "ok", Stars: 4}); err != nil {
		t.Fatalf("create review: %v", err)
	}
	stats, err := spots.ReviewStats(ctx, []uint{cheap.ID, pricey.ID})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats[cheap.ID].Count != 1 || stats[cheap.ID].Sum != 4 {
		t.Fatalf("unexpected stats: %+v", stats[cheap.ID])
	}
	if _, ok := stats[pricey.ID]; ok {
		t.Fatalf("expected no stats for unreviewed spot")
	}
}

func TestPostgresOnePreviewPerSpot(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	spots := NewSpotRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "owner")
	spot := seedSpot(t, spots, owner.ID, 100)

	first := &models.SpotImage{SpotID: spot.ID, URL: "https://img/1.png", Preview: true}
	second := &models.SpotImage{SpotID: spot.ID, URL: "https://img/2.png", Preview: true}
	if err := spots.AddImage(ctx, first); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := spots.AddImage(ctx, second); err != nil {
		t.Fatalf("add second: %v", err)
	}

	images, err := spots.Images(ctx, []uint{spot.ID})
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	previews := 0
	for _, img := range images {
		if img.Preview {
			previews++
			if img.ID != second.ID {
				t.Fatalf("expected newest image to be the preview")
			}
		}
	}
	if previews != 1 {
		t.Fatalf("expected exactly one preview, got %d", previews)
	}
}

func TestPostgresReviewUniqueAndImageCap(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	spots := NewSpotRepository(db)
	reviews := NewReviewRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	owner := seedUser(t, users, "owner")
	guest := seedUser(t, users, "guest")
	spot := seedSpot(t, spots, owner.ID, 100)

	review := &models.Review{UserID: guest.ID, SpotID: spot.ID, Review: "great", Stars: 5}
	if err := reviews.Create(ctx, review); err != nil {
		t.Fatalf("create: %v", err)
	}
	again := &models.Review{UserID: guest.ID, SpotID: spot.ID, Review: "again", Stars: 3}
	if err := reviews.Create(ctx, again); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	list, err := reviews.ListBySpot(ctx, spot.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one review, got %d (%v)", len(list), err)
	}

	for i := 0; i < models.MaxReviewImages; i++ {
		img := &models.ReviewImage{ReviewID: review.ID, URL: fmt.Sprintf("https://img/%d.png", i)}
		if err := reviews.AddImage(ctx, img, models.MaxReviewImages); err != nil {
			t.Fatalf("add image %d: %v", i, err)
		}
	}
	extra := &models.ReviewImage{ReviewID: review.ID, URL: "https://img/extra.png"}
	if err := reviews.AddImage(ctx, extra, models.MaxReviewImages); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	if err := spots.Delete(ctx, spot.ID); err != nil {
		t.Fatalf("delete spot: %v", err)
	}
	if _, err := reviews.GetByID(ctx, review.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected review removed with its spot, got %v", err)
	}
}

func TestPostgresConcurrentPreviews(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	spots := NewSpotRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "owner")
	spot := seedSpot(t, spots, owner.ID, 100)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img := &models.SpotImage{SpotID: spot.ID, URL: fmt.Sprintf("https://img/%d.png", i), Preview: true}
			errs <- spots.AddImage(ctx, img)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("add image: %v", err)
		}
	}

	images, err := spots.Images(ctx, []uint{spot.ID})
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	previews := 0
	for _, img := range images {
		if img.Preview {
			previews++
		}
	}
	if len(images) != n || previews != 1 {
		t.Fatalf("expected %d images with one preview, got %d and %d", n, len(images), previews)
	}
}

func TestPostgresReviewForMissingSpot(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	reviews := NewReviewRepository(db)

	guest := seedUser(t, users, "guest")
	review := &models.Review{UserID: guest.ID, SpotID: 424242, Review: "great", Stars: 5}
	if err := reviews.Create(context.Background(), review); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
