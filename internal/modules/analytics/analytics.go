// Package analytics aggregates order metrics for the admin dashboard.
package analytics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"food-ordering/pkg/logger"
	"food-ordering/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// Summary is the admin dashboard rollup. Revenue counts delivered orders
// only; cancelled and in-flight orders are excluded.
type Summary struct {
	TotalOrders    int64            `json:"totalOrders"`
	TotalRevenue   float64          `json:"totalRevenue"`
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	TopItems       []TopItem        `json:"topItems"`
}

type TopItem struct {
	MenuItemID int    `json:"menuItemId"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
}

type RepositoryInterface interface {
	Summarize(ctx context.Context) (*Summary, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{OrdersByStatus: map[string]int64{}}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("repository.Summarize status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("repository.Summarize scan: %w", err)
		}
		summary.OrdersByStatus[status] = count
		summary.TotalOrders += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.Summarize rows: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE status = 'delivered'`).Scan(&summary.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("repository.Summarize revenue: %w", err)
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT mi.id, mi.name, SUM(oi.quantity) AS qty
		FROM order_items oi
		JOIN menu_items mi ON mi.id = oi.menu_item_id
		GROUP BY mi.id, mi.name
		ORDER BY qty DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("repository.Summarize top items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item TopItem
		if err := itemRows.Scan(&item.MenuItemID, &item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("repository.Summarize top items scan: %w", err)
		}
		summary.TopItems = append(summary.TopItems, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository.Summarize top items rows: %w", err)
	}

	return summary, nil
}

type ServiceInterface interface {
	GetSummary(ctx context.Context) (*Summary, error)
}

type Service struct {
	repo    RepositoryInterface
	timeout time.Duration
	log     *logger.Logger
}

func NewService(repo RepositoryInterface, timeout time.Duration, log *logger.Logger) *Service {
	return &Service{repo: repo, timeout: timeout, log: log.WithComponent("analytics")}
}

func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.repo.Summarize(ctx)
}

type Handler struct {
	svc ServiceInterface
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// GetSummary handles GET /api/analytics/summary (admin only).
func (h *Handler) GetSummary(c echo.Context) error {
	summary, err := h.svc.GetSummary(c.Request().Context())
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, summary)
}
