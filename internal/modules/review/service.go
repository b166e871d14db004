package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"safaribook/internal/domain"
	"safaribook/internal/pkg/cache"
	"safaribook/internal/pkg/utils"
)

type Repository interface {
	ListForItem(ctx context.Context, kind domain.ItemKind, itemID int64) ([]domain.Review, error)
	Create(ctx context.Context, rv *domain.Review) error
}

type Service struct {
	repo  Repository
	cache cache.Store
}

func NewService(repo Repository, store cache.Store) *Service {
	if store == nil {
		store = cache.NewNoop()
	}
	return &Service{repo: repo, cache: store}
}

func cacheKey(kind domain.ItemKind, itemID int64) string {
	return "reviews_" + string(kind) + "_" + strconv.FormatInt(itemID, 10)
}

// ListForItem returns reviews of one hotel or safari, newest first.
func (s *Service) ListForItem(ctx context.Context, itemType string, itemID int64) ([]domain.Review, error) {
	kind, ok := domain.ParseItemKind(strings.ToLower(strings.TrimSpace(itemType)))
	if !ok {
		return nil, ErrUnknownItem
	}
	if itemID <= 0 {
		return nil, ErrInvalidRequest
	}

	key := cacheKey(kind, itemID)
	if v, ok := s.cache.Get(key); ok {
		if rows, ok := v.([]domain.Review); ok {
			return rows, nil
		}
	}

	gen := s.cache.Generation()
	rows, err := s.repo.ListForItem(ctx, kind, itemID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	s.cache.SetIfGeneration(key, rows, gen)
	return rows, nil
}

func (s *Service) Create(ctx context.Context, author domain.Member, req CreateReviewRequest) (*domain.Review, error) {
	kind, ok := domain.ParseItemKind(req.ItemType)
	if !ok {
		return nil, ErrUnknownItem
	}

	rv := &domain.Review{
		UserID:   author.ID,
		ItemType: kind,
		ItemID:   req.ItemID,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
		Images:   utils.NormalizeImages(req.Images),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if rv.UserName == "" {
		rv.UserName = author.Name
	}

	s.cache.Delete(cacheKey(kind, rv.ItemID))
	return rv, nil
}
