package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"safaribook/internal/domain"
	"safaribook/internal/pkg/cache"
	"safaribook/internal/pkg/utils"
	"safaribook/internal/repository"
)

// Service serves hotels, safaris and cities. Listings go through the
// cache; any hotel or safari write flushes the whole cache.
type Service struct {
	hotels  HotelRepository
	safaris SafariRepository
	cities  CityRepository
	cache   cache.Store
	log     logrus.FieldLogger
}

func NewService(hotels HotelRepository, safaris SafariRepository, cities CityRepository, store cache.Store, log logrus.FieldLogger) *Service {
	if store == nil {
		store = cache.NewNoop()
	}
	return &Service{hotels: hotels, safaris: safaris, cities: cities, cache: store, log: log}
}

/* ---------- HOTELS ---------- */

func (s *Service) ListHotels(ctx context.Context, citySlug string) ([]domain.Hotel, error) {
	citySlug = strings.TrimSpace(citySlug)
	return getOrLoad(s.cache, listKey(kindHotels, citySlug), func() ([]domain.Hotel, error) {
		return s.hotels.List(ctx, citySlug)
	})
}

// GetHotel looks up by numeric id first, then by slug.
func (s *Service) GetHotel(ctx context.Context, idOrSlug string) (*domain.Hotel, error) {
	h, err := lookup(ctx, idOrSlug, s.hotels.GetByID, s.hotels.GetBySlug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrHotelNotFound
	}
	return h, err
}

func (s *Service) CreateHotel(ctx context.Context, req CreateHotelRequest) (*domain.Hotel, error) {
	h := &domain.Hotel{
		Name:            strings.TrimSpace(req.Name),
		Slug:            makeSlug(req.Slug, req.Name, "hotel"),
		CitySlug:        strings.ToLower(strings.TrimSpace(req.CitySlug)),
		Price:           req.Price,
		Rating:          req.Rating,
		Description:     req.Description,
		Images:          utils.NormalizeImages(req.Images),
		DiscountPercent: req.DiscountPercent,
	}

	if err := s.hotels.Create(ctx, h); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create hotel: %w", err)
	}

	s.invalidate("hotel created", h.ID)
	return h, nil
}

func (s *Service) DeleteHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	h, err := s.hotels.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("delete hotel: %w", err)
	}

	s.invalidate("hotel deleted", id)
	return h, nil
}

/* ---------- SAFARIS ---------- */

func (s *Service) ListSafaris(ctx context.Context, citySlug string) ([]domain.Safari, error) {
	citySlug = strings.TrimSpace(citySlug)
	return getOrLoad(s.cache, listKey(kindSafaris, citySlug), func() ([]domain.Safari, error) {
		return s.safaris.List(ctx, citySlug)
	})
}

func (s *Service) GetSafari(ctx context.Context, idOrSlug string) (*domain.Safari, error) {
	sf, err := lookup(ctx, idOrSlug, s.safaris.GetByID, s.safaris.GetBySlug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSafariNotFound
	}
	return sf, err
}

func (s *Service) CreateSafari(ctx context.Context, req CreateSafariRequest) (*domain.Safari, error) {
	req.normalize()
	sf := &domain.Safari{
		Name:            strings.TrimSpace(req.Name),
		Slug:            makeSlug(req.Slug, req.Name, "safari"),
		CitySlug:        strings.ToLower(strings.TrimSpace(req.CitySlug)),
		Price:           req.Price,
		Duration:        strings.TrimSpace(req.Duration),
		Description:     req.Description,
		Images:          utils.NormalizeImages(req.Images),
		DiscountPercent: req.DiscountPercent,
	}

	if err := s.safaris.Create(ctx, sf); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create safari: %w", err)
	}

	s.invalidate("safari created", sf.ID)
	return sf, nil
}

func (s *Service) DeleteSafari(ctx context.Context, id int64) (*domain.Safari, error) {
	sf, err := s.safaris.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSafariNotFound
		}
		return nil, fmt.Errorf("delete safari: %w", err)
	}

	s.invalidate("safari deleted", id)
	return sf, nil
}

/* ---------- CITIES / PRICES ---------- */

func (s *Service) ListCities(ctx context.Context) ([]domain.City, error) {
	return getOrLoad(s.cache, listKey(kindCities, ""), func() ([]domain.City, error) {
		return s.cities.List(ctx)
	})
}

// ItemPrice returns the list price and discount of a hotel or safari.
func (s *Service) ItemPrice(ctx context.Context, kind domain.ItemKind, id int64) (float64, int, error) {
	switch kind {
	case domain.ItemHotel:
		h, err := s.hotels.GetByID(ctx, id)
		if err != nil {
			return 0, 0, err
		}
		return h.Price, h.DiscountPercent, nil
	case domain.ItemSafari:
		sf, err := s.safaris.GetByID(ctx, id)
		if err != nil {
			return 0, 0, err
		}
		return sf.Price, sf.DiscountPercent, nil
	}
	return 0, 0, ErrUnknownKind
}

func (s *Service) invalidate(reason string, id int64) {
	s.cache.Flush()
	s.log.WithFields(logrus.Fields{"reason": reason, "id": id}).Debug("inventory cache flushed")
}

func lookup[T any](
	ctx context.Context,
	idOrSlug string,
	byID func(context.Context, int64) (*T, error),
	bySlug func(context.Context, string) (*T, error),
) (*T, error) {
	key := strings.TrimSpace(idOrSlug)
	if key == "" {
		return nil, repository.ErrNotFound
	}
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
		item, err := byID(ctx, id)
		if !errors.Is(err, repository.ErrNotFound) {
			return item, err
		}
	}
	return bySlug(ctx, key)
}

func makeSlug(provided, name, fallback string) string {
	if slug := utils.Slugify(provided); slug != "" {
		return slug
	}
	return utils.UniqueSlug(name, fallback)
}
