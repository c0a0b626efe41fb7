package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/models"
	"food-ordering/internal/statemachine"
	"food-ordering/pkg/logger"
	"food-ordering/pkg/utils"
)

// tokenRetries bounds how often a colliding order token is regenerated.
const tokenRetries = 5

// Broadcaster is the slice of the realtime hub the service needs. Publishing
// is fire-and-forget; it never fails the originating request.
type Broadcaster interface {
	PublishOrderUpdate(order *models.Order)
}

// UserDirectory is the slice of the users store the service needs to check
// delivery-role assignments.
type UserDirectory interface {
	FindByID(ctx context.Context, userID int) (*models.User, error)
}

// ServiceInterface defines the contract for the order service.
type ServiceInterface interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	GetOrderByToken(ctx context.Context, token string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID int) ([]*models.Order, error)
	ListAssignedOrders(ctx context.Context, callerID int, callerRole string, deliveryGuyID int) ([]*models.Order, error)
	ListAllOrders(ctx context.Context, statusFilter string) ([]*models.Order, error)
	AssignDelivery(ctx context.Context, req models.AssignDeliveryRequest) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID, callerID int, callerRole string, req models.UpdateStatusRequest) (*models.Order, error)
}

// Service implements the order lifecycle: creation, assignment, status
// transitions and their broadcast. The store is the sole mutator; the hub
// only ever receives the snapshot a successful command produced.
type Service struct {
	repo     RepositoryInterface
	users    UserDirectory
	verifier *Verifier
	hub      Broadcaster
	timeout  time.Duration
	log      *logger.Logger
}

// NewService creates a new order service. timeout bounds every store
// operation; zero disables the bound.
func NewService(repo RepositoryInterface, users UserDirectory, hub Broadcaster, timeout time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		verifier: NewVerifier(repo),
		hub:      hub,
		timeout:  timeout,
		log:      log.WithComponent("orders"),
	}
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// CreateOrder places a new order: fresh unique token, order plus all items
// written atomically, then a broadcast of the pending snapshot.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", models.ErrValidation)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var order *models.Order
	for attempt := 0; attempt < tokenRetries; attempt++ {
		token, err := utils.NewOrderToken()
		if err != nil {
			return nil, fmt.Errorf("service.CreateOrder: %w", err)
		}
		order, err = s.repo.Create(ctx, req, token)
		if err == nil {
			break
		}
		if errors.Is(err, models.ErrDuplicateToken) {
			s.log.Warn("order token collision, regenerating", "attempt", attempt+1)
			continue
		}
		return nil, fmt.Errorf("service.CreateOrder: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("service.CreateOrder: token space exhausted after %d attempts", tokenRetries)
	}

	s.hub.PublishOrderUpdate(order)
	return order, nil
}

// GetOrderByToken is the customer-facing lookup and the delivery client's
// advisory verification read.
func (s *Service) GetOrderByToken(ctx context.Context, token string) (*models.Order, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.FindByToken(ctx, token)
}

// ListUserOrders returns the caller's own orders, newest first.
func (s *Service) ListUserOrders(ctx context.Context, userID int) ([]*models.Order, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.ListByUser(ctx, userID)
}

// ListAssignedOrders returns a delivery person's active worklist. Only the
// delivery person themself or an admin may read it.
func (s *Service) ListAssignedOrders(ctx context.Context, callerID int, callerRole string, deliveryGuyID int) ([]*models.Order, error) {
	if callerRole != models.RoleAdmin && callerID != deliveryGuyID {
		return nil, fmt.Errorf("%w: worklist belongs to another delivery person", models.ErrForbidden)
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.ListByDeliveryPerson(ctx, deliveryGuyID)
}

// ListAllOrders returns every order for the admin dashboard, optionally
// filtered by status.
func (s *Service) ListAllOrders(ctx context.Context, statusFilter string) ([]*models.Order, error) {
	var status models.OrderStatus
	if statusFilter != "" {
		parsed, err := statemachine.ParseStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.ListAll(ctx, status)
}

// AssignDelivery hands an order to a delivery-role user. Assignment implies
// dispatch: delivery_guy_id and status=out_for_delivery are one atomic write.
func (s *Service) AssignDelivery(ctx context.Context, req models.AssignDeliveryRequest) (*models.Order, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	assignee, err := s.users.FindByID(ctx, req.DeliveryGuyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: delivery person %d does not exist", models.ErrValidation, req.DeliveryGuyID)
		}
		return nil, fmt.Errorf("service.AssignDelivery: %w", err)
	}
	if assignee.Role != models.RoleDelivery {
		return nil, fmt.Errorf("%w: user %d is not a delivery person", models.ErrValidation, req.DeliveryGuyID)
	}

	order, err := s.repo.AssignDelivery(ctx, req.OrderID, req.DeliveryGuyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, s.explainAssignFailure(ctx, req.OrderID)
		}
		return nil, fmt.Errorf("service.AssignDelivery: %w", err)
	}

	s.hub.PublishOrderUpdate(order)
	return order, nil
}

// explainAssignFailure turns the store's "no row matched" into the precise
// rejection: missing order, terminal order, or already dispatched.
func (s *Service) explainAssignFailure(ctx context.Context, orderID int) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("service.AssignDelivery: %w", err)
	}
	if statemachine.IsTerminal(order.Status) {
		return fmt.Errorf("%w: %s", models.ErrOrderAlreadyFinal, order.Status)
	}
	return fmt.Errorf("%w: order is %s, not pending", models.ErrInvalidTransition, order.Status)
}

// UpdateStatus advances an order through the state machine on behalf of the
// caller. Only admins and the order's assigned delivery person may advance
// status, and the delivered transition additionally requires the presented
// token to verify against the order — server-side, before any write.
func (s *Service) UpdateStatus(ctx context.Context, orderID, callerID int, callerRole string, req models.UpdateStatusRequest) (*models.Order, error) {
	newStatus, err := statemachine.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var actor statemachine.Actor
	switch callerRole {
	case models.RoleAdmin:
		actor = statemachine.ActorAdmin
	case models.RoleDelivery:
		if !order.DeliveryGuyID.Valid || int(order.DeliveryGuyID.Int64) != callerID {
			return nil, fmt.Errorf("%w: order is not assigned to you", models.ErrForbidden)
		}
		actor = statemachine.ActorDelivery
	default:
		return nil, fmt.Errorf("%w: only admins or the assigned delivery person may change order status", models.ErrForbidden)
	}

	if err := statemachine.CanTransition(order.Status, newStatus, actor); err != nil {
		return nil, err
	}

	// out_for_delivery and delivered both require an assigned delivery person.
	if newStatus == models.StatusOutForDelivery && !order.DeliveryGuyID.Valid {
		return nil, fmt.Errorf("%w: assign a delivery person first", models.ErrInvalidTransition)
	}

	if newStatus == models.StatusDelivered {
		ok, err := s.verifier.Verify(ctx, req.Token, orderID)
		if err != nil {
			return nil, fmt.Errorf("service.UpdateStatus: %w", err)
		}
		if !ok {
			return nil, models.ErrTokenMismatch
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, newStatus)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateStatus: %w", err)
	}

	s.hub.PublishOrderUpdate(updated)
	return updated, nil
}
