package menu

import (
	"context"
	"time"

	"food-ordering/internal/models"
	"food-ordering/pkg/logger"
)

// ServiceInterface defines the contract for the menu service.
type ServiceInterface interface {
	ListAvailable(ctx context.Context) ([]*models.MenuItem, error)
	ListAll(ctx context.Context) ([]*models.MenuItem, error)
	GetItem(ctx context.Context, itemID int) (*models.MenuItem, error)
	CreateItem(ctx context.Context, req models.CreateMenuItemRequest) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, itemID int, req models.UpdateMenuItemRequest) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, itemID int) error
}

type Service struct {
	repo    RepositoryInterface
	timeout time.Duration
	log     *logger.Logger
}

func NewService(repo RepositoryInterface, timeout time.Duration, log *logger.Logger) *Service {
	return &Service{repo: repo, timeout: timeout, log: log.WithComponent("menu")}
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// ListAvailable returns what customers can currently order.
func (s *Service) ListAvailable(ctx context.Context) ([]*models.MenuItem, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.List(ctx, false)
}

// ListAll includes unavailable items for the admin dashboard.
func (s *Service) ListAll(ctx context.Context) ([]*models.MenuItem, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.List(ctx, true)
}

func (s *Service) GetItem(ctx context.Context, itemID int) (*models.MenuItem, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.FindByID(ctx, itemID)
}

func (s *Service) CreateItem(ctx context.Context, req models.CreateMenuItemRequest) (*models.MenuItem, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	item, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("menu item created", "item_id", item.ID, "name", item.Name)
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, itemID int, req models.UpdateMenuItemRequest) (*models.MenuItem, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.Update(ctx, itemID, req)
}

func (s *Service) DeleteItem(ctx context.Context, itemID int) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.repo.Delete(ctx, itemID); err != nil {
		return err
	}
	s.log.Info("menu item deleted", "item_id", itemID)
	return nil
}
