package audit

import (
	"context"

	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

// Service exposes the decision audit trail.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Timeline returns a page of the newest decisions.
func (s *Service) Timeline(ctx context.Context, page, perPage int) ([]Entry, shared.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	entries, total, err := s.repo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return entries, shared.NewPagination(page, perPage, total), nil
}
