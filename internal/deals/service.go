package deals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

// ErrStatus indicates an invalid status transition.
var ErrStatus = errors.New("deals: invalid status transition")

// Service orchestrates deal operations. Authorization happens before the
// service is reached; this layer owns data rules only.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures the caller-supplied fields of a new deal.
type CreateInput struct {
	SmeID            string
	Title            string
	Sector           string
	FundingRequired  float64
	EquityPercentage float64
	ContactEmail     string
	ContactPhone     string
}

// Create registers a new pending deal and returns it.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Deal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.New("deals: title required")
	}
	if input.SmeID == "" {
		return nil, errors.New("deals: sme id required")
	}
	now := time.Now().UTC()
	id := uuid.NewString()
	deal := Deal{
		ID:               id,
		Reference:        fmt.Sprintf("FB-DEAL-%s", strings.ToUpper(id[:8])),
		SmeID:            input.SmeID,
		Title:            strings.TrimSpace(input.Title),
		Sector:           strings.TrimSpace(input.Sector),
		FundingRequired:  input.FundingRequired,
		EquityPercentage: input.EquityPercentage,
		ContactEmail:     strings.TrimSpace(input.ContactEmail),
		ContactPhone:     strings.TrimSpace(input.ContactPhone),
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// List returns a page of all deals.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Deal, shared.Pagination, error) {
	page, perPage = clampPage(page, perPage)
	list, total, err := s.repo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}

// ListByOwner returns a page of one SME's deals.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, page, perPage int) ([]Deal, shared.Pagination, error) {
	page, perPage = clampPage(page, perPage)
	list, total, err := s.repo.ListByOwner(ctx, ownerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}

// Get fetches one deal.
func (s *Service) Get(ctx context.Context, id string) (*Deal, error) {
	return s.repo.Get(ctx, id)
}

// OwnerID resolves the owning SME's user ID for authorization checks.
func (s *Service) OwnerID(ctx context.Context, id string) (string, error) {
	return s.repo.OwnerID(ctx, id)
}

// Approve moves a pending deal to approved.
func (s *Service) Approve(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusPending, StatusApproved)
}

// Close moves an approved deal to closed.
func (s *Service) Close(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusApproved, StatusClosed)
}

// UpdateInput captures the mutable fields of a deal.
type UpdateInput struct {
	Title            string
	Sector           string
	FundingRequired  float64
	EquityPercentage float64
	ContactEmail     string
	ContactPhone     string
}

// Update rewrites a pending deal's details. The input is the complete set of
// mutable fields; zero values overwrite what is stored.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Deal, error) {
	deal, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal.Status != StatusPending {
		return nil, ErrStatus
	}
	deal.Title = strings.TrimSpace(input.Title)
	deal.Sector = strings.TrimSpace(input.Sector)
	deal.FundingRequired = input.FundingRequired
	deal.EquityPercentage = input.EquityPercentage
	deal.ContactEmail = strings.TrimSpace(input.ContactEmail)
	deal.ContactPhone = strings.TrimSpace(input.ContactPhone)
	if deal.Title == "" {
		return nil, errors.New("deals: title required")
	}
	if err := s.repo.Update(ctx, *deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *Service) transition(ctx context.Context, id, from, to string) error {
	deal, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if deal.Status != from {
		return ErrStatus
	}
	return s.repo.UpdateStatus(ctx, id, to)
}

func clampPage(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
