package status

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"github.com/google/uuid"
)

// ErrClientNameRequired is returned by Create for a blank client name.
var ErrClientNameRequired = errors.New("client_name is required")

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Create(ctx context.Context, in types.StatusCheckCreate) (*types.StatusCheck, error)
	List(ctx context.Context) ([]types.StatusCheck, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	now    func() time.Time
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *ServiceImpl) Create(ctx context.Context, in types.StatusCheckCreate) (*types.StatusCheck, error) {
	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, ErrClientNameRequired
	}

	check := types.StatusCheck{
		ID:         uuid.New(),
		ClientName: name,
		Timestamp:  s.now(),
	}
	if err := s.repo.Save(ctx, check); err != nil {
		s.logger.ErrorContext(ctx, "failed to save status check", slog.Any("error", err))
		return nil, err
	}
	return &check, nil
}

func (s *ServiceImpl) List(ctx context.Context) ([]types.StatusCheck, error) {
	checks, err := s.repo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list status checks", slog.Any("error", err))
		return nil, err
	}
	return checks, nil
}
