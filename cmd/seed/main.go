package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"safaribook/internal/config"
	"safaribook/internal/database"
	"safaribook/internal/domain"
	"safaribook/internal/pkg/logger"
	"safaribook/internal/repository"
)

var cities = []domain.City{
	{Name: "Jawai", Slug: "jawai"},
	{Name: "Udaipur", Slug: "udaipur"},
	{Name: "Ranthambore", Slug: "ranthambore"},
}

func rating(v float64) *float64 { return &v }

var hotels = []domain.Hotel{
	{
		Name: "Granite Hill Camp", Slug: "granite-hill-camp", CitySlug: "jawai", Price: 18500,
		Rating: rating(4.7), Description: "Tented suites facing the leopard hills.",
		Images: []string{"/uploads/seed-granite-1.jpg", "/uploads/seed-granite-2.jpg"}, DiscountPercent: 10,
	},
	{
		Name: "Lakeside Haveli", Slug: "lakeside-haveli", CitySlug: "udaipur", Price: 9200,
		Rating: rating(4.4), Description: "Restored haveli on the lake ghats.",
		Images: []string{"/uploads/seed-haveli-1.jpg"},
	},
	{
		Name: "Tiger Trail Lodge", Slug: "tiger-trail-lodge", CitySlug: "ranthambore", Price: 12800,
		Rating: rating(4.5), Description: "Jungle lodge ten minutes from the park gate.",
		Images: []string{"/uploads/seed-tiger-1.jpg", "/uploads/seed-tiger-2.jpg"}, DiscountPercent: 15,
	},
}

var safaris = []domain.Safari{
	{
		Name: "Leopard Dawn Drive", Slug: "leopard-dawn-drive", CitySlug: "jawai", Price: 4500,
		Duration: "3 hours", Description: "Open jeep drive through the granite hills at sunrise.",
		Images: []string{"/uploads/seed-leopard-1.jpg"},
	},
	{
		Name: "Bera Village Walk", Slug: "bera-village-walk", CitySlug: "jawai", Price: 1800,
		Duration: "2 hours", Description: "Guided walk with a Rabari herder.",
		Images: []string{"/uploads/seed-bera-1.jpg"}, DiscountPercent: 5,
	},
	{
		Name: "Zone 3 Canter", Slug: "zone-3-canter", CitySlug: "ranthambore", Price: 2600,
		Duration: "3.5 hours", Description: "Shared canter through the lake zone.",
		Images: []string{"/uploads/seed-canter-1.jpg"},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL, database.DefaultRetryPolicy(), log)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	defer db.Close()

	db.EnsureSchema(ctx, repository.Schema())

	cityRepo := repository.NewCityRepository(db)
	for i := range cities {
		if err := cityRepo.Upsert(ctx, &cities[i]); err != nil {
			log.WithError(err).WithField("slug", cities[i].Slug).Fatal("seed city")
		}
	}
	log.WithField("count", len(cities)).Info("cities seeded")

	hotelRepo := repository.NewHotelRepository(db)
	created := 0
	for i := range hotels {
		h := &hotels[i]
		if _, err := hotelRepo.GetBySlug(ctx, h.Slug); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.WithError(err).Fatal("lookup hotel")
		}
		if err := hotelRepo.Create(ctx, h); err != nil {
			log.WithError(err).WithField("slug", h.Slug).Fatal("seed hotel")
		}
		created++
	}
	log.WithField("created", created).Info("hotels seeded")

	safariRepo := repository.NewSafariRepository(db)
	created = 0
	for i := range safaris {
		s := &safaris[i]
		if _, err := safariRepo.GetBySlug(ctx, s.Slug); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.WithError(err).Fatal("lookup safari")
		}
		if err := safariRepo.Create(ctx, s); err != nil {
			log.WithError(err).WithField("slug", s.Slug).Fatal("seed safari")
		}
		created++
	}
	log.WithField("created", created).Info("safaris seeded")
}
