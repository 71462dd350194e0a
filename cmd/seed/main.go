package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/cities"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/ingest"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/restaurants"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/users"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/visits"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/config"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/logger"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	mode := flag.String("mode", "import", "seed mode: import|fixtures")
	city := flag.String("city", "Vancouver", "city to import restaurants for")
	wipe := flag.Bool("wipe", false, "delete existing restaurants before importing")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"mode": *mode,
		"city": *city,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	cityRepo := cities.NewRepository(dbClient.DB())
	restaurantRepo := restaurants.NewRepository(dbClient.DB())

	switch *mode {
	case "import":
		client, err := ingest.NewHTTPClient(cfg.Listings)
		requireResource(ctx, logg, "listings client", err)

		loader, err := ingest.NewLoader(ingest.LoaderParams{
			Client:      client,
			Cities:      cityRepo,
			Restaurants: restaurantRepo,
			Logger:      logg,
			PageSize:    cfg.Listings.PageSize,
			MaxResults:  cfg.Listings.MaxResults,
		})
		requireResource(ctx, logg, "loader", err)

		wipeExisting := *wipe || cfg.Listings.WipeExisting
		imported, err := loader.LoadCity(ctx, *city, wipeExisting)
		if err != nil {
			logg.Error(ctx, "restaurant import failed", err)
			os.Exit(1)
		}
		logg.Info(logg.WithField(ctx, "imported", imported), "restaurant import finished")

	case "fixtures":
		if err := seedFixtures(ctx, cfg, dbClient, cityRepo, restaurantRepo); err != nil {
			logg.Error(ctx, "fixture seed failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "fixtures seeded")

	default:
		fmt.Fprintln(os.Stderr, "unknown -mode value:", *mode)
		os.Exit(1)
	}
}

// seedFixtures loads a small demo data set: one city, three users who all
// share the password "breadcrumbs", a handful of restaurants, a visit, and a
// friend graph with one accepted edge and one pending request.
func seedFixtures(ctx context.Context, cfg *config.Config, dbClient *db.Client, cityRepo *cities.Repository, restaurantRepo *restaurants.Repository) error {
	userRepo := users.NewRepository(dbClient.DB())
	visitRepo := visits.NewRepository(dbClient.DB())

	vancouver, err := cityRepo.GetOrCreate(ctx, "Vancouver")
	if err != nil {
		return fmt.Errorf("seeding city: %w", err)
	}

	hash, err := security.HashPassword("breadcrumbs", cfg.Password)
	if err != nil {
		return fmt.Errorf("hashing fixture password: %w", err)
	}

	seedUsers := []users.CreateUserDTO{
		{CityID: vancouver.ID, Email: "ashley@breadcrumbs.app", PasswordHash: hash, FirstName: "Ashley", LastName: "Chen"},
		{CityID: vancouver.ID, Email: "bob@breadcrumbs.app", PasswordHash: hash, FirstName: "Bob", LastName: "Singh"},
		{CityID: vancouver.ID, Email: "cat@breadcrumbs.app", PasswordHash: hash, FirstName: "Cat", LastName: "Moreau"},
	}
	created := make(map[string]uuid.UUID, len(seedUsers))
	for _, dto := range seedUsers {
		existing, err := userRepo.FindByEmail(ctx, dto.Email)
		if err != nil {
			return fmt.Errorf("checking fixture user %s: %w", dto.Email, err)
		}
		if existing != nil {
			created[dto.FirstName] = existing.ID
			continue
		}
		user, err := userRepo.Create(ctx, dto)
		if err != nil {
			return fmt.Errorf("seeding user %s: %w", dto.Email, err)
		}
		created[dto.FirstName] = user.ID
	}

	chambar, err := restaurantRepo.Search(ctx, "Chambar", 1)
	if err != nil {
		return fmt.Errorf("checking fixture restaurants: %w", err)
	}
	if len(chambar) == 0 {
		address := "568 Beatty St"
		rows := []restaurants.CreateRestaurantDTO{
			{CityID: vancouver.ID, Name: "Chambar", Address: &address, Latitude: 49.2798, Longitude: -123.1090, Categories: []string{"Belgian", "Brunch"}},
			{CityID: vancouver.ID, Name: "Medina Cafe", Latitude: 49.2772, Longitude: -123.1166, Categories: []string{"Brunch"}},
			{CityID: vancouver.ID, Name: "Phnom Penh", Latitude: 49.2788, Longitude: -123.0990, Categories: []string{"Cambodian", "Vietnamese"}},
		}
		if _, err := restaurantRepo.BulkInsert(ctx, rows); err != nil {
			return fmt.Errorf("seeding restaurants: %w", err)
		}
		if chambar, err = restaurantRepo.Search(ctx, "Chambar", 1); err != nil || len(chambar) == 0 {
			return fmt.Errorf("looking up seeded restaurant: %w", err)
		}
	}
	rating := 5
	if _, _, err := visitRepo.CreateIfAbsent(ctx, created["Bob"], chambar[0].ID, &rating); err != nil {
		return fmt.Errorf("seeding visit: %w", err)
	}

	// One accepted friendship and one unanswered request. Accepted rows are
	// only ever written by seed data, so this goes straight through gorm.
	edges := []models.Connection{
		{UserAID: created["Ashley"], UserBID: created["Bob"], Status: models.ConnectionStatusAccepted},
		{UserAID: created["Cat"], UserBID: created["Ashley"], Status: models.ConnectionStatusRequested},
	}
	return dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		for _, edge := range edges {
			var count int64
			if err := tx.Model(&models.Connection{}).
				Where("user_a_id = ? AND user_b_id = ?", edge.UserAID, edge.UserBID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("checking fixture connection: %w", err)
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&edge).Error; err != nil {
				return fmt.Errorf("seeding connection: %w", err)
			}
		}
		return nil
	})
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
