package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"food-ordering/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the order store. Same-order
// writes are serialized here via single atomic UPDATE statements; callers
// never read-modify-write.
type RepositoryInterface interface {
	Create(ctx context.Context, req models.CreateOrderRequest, token string) (*models.Order, error)
	FindByID(ctx context.Context, orderID int) (*models.Order, error)
	FindByToken(ctx context.Context, token string) (*models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Order, error)
	ListByDeliveryPerson(ctx context.Context, deliveryGuyID int) ([]*models.Order, error)
	ListAll(ctx context.Context, status models.OrderStatus) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) (*models.Order, error)
	AssignDelivery(ctx context.Context, orderID, deliveryGuyID int) (*models.Order, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new order repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const uniqueViolation = "23505"

// Create persists the order and all of its items as one transaction: either
// the order and every line exist afterwards, or nothing does. A token
// collision surfaces as models.ErrDuplicateToken so the caller can retry
// with a fresh token.
func (r *Repository) Create(ctx context.Context, req models.CreateOrderRequest, token string) (*models.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.Create begin: %w", err)
	}
	defer tx.Rollback(ctx)

	order := &models.Order{
		UserID:     req.UserID,
		Token:      token,
		Status:     models.StatusPending,
		TotalPrice: req.TotalPrice,
		Address:    req.Address,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, delivery_guy_id, token, status, total_price, address)
		VALUES ($1, NULL, $2, 'pending', $3, $4)
		RETURNING id, created_at, updated_at`,
		req.UserID, token, req.TotalPrice, req.Address,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("repository.Create: %w", models.ErrDuplicateToken)
		}
		return nil, fmt.Errorf("repository.Create order: %w", err)
	}

	for _, it := range req.Items {
		item := models.OrderItem{
			OrderID:     order.ID,
			MenuItemID:  it.ID,
			Quantity:    it.Quantity,
			PriceAtTime: it.Price,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_time)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			item.OrderID, item.MenuItemID, item.Quantity, item.PriceAtTime,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("repository.Create item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.Create commit: %w", err)
	}
	return order, nil
}

// orderColumns joins the customer and the (possibly unassigned) delivery
// person onto every order row.
const orderColumns = `
	SELECT o.id, o.user_id, o.delivery_guy_id, o.token, o.status, o.total_price,
	       o.address, o.created_at, o.updated_at,
	       u.name, d.id, d.name, d.email
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN users d ON d.id = o.delivery_guy_id`

func (r *Repository) scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order   models.Order
		dpID    sql.NullInt64
		dpName  sql.NullString
		dpEmail sql.NullString
	)
	err := row.Scan(
		&order.ID, &order.UserID, &order.DeliveryGuyID, &order.Token, &order.Status,
		&order.TotalPrice, &order.Address, &order.CreatedAt, &order.UpdatedAt,
		&order.UserName, &dpID, &dpName, &dpEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	if dpID.Valid {
		order.DeliveryPerson = &models.UserSummary{
			ID:    int(dpID.Int64),
			Name:  dpName.String,
			Email: dpEmail.String,
		}
	}
	return &order, nil
}

// loadItems attaches order items (with menu-item details) to each order.
func (r *Repository) loadItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int]*models.Order, len(orders))
	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price_at_time,
		       m.id, m.name, m.description, m.price, m.image_url
		FROM order_items oi
		LEFT JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, ids)
	if err != nil {
		return fmt.Errorf("repository.loadItems: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item   models.OrderItem
			mID    sql.NullInt64
			mName  sql.NullString
			mDesc  sql.NullString
			mPrice sql.NullFloat64
			mImage sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.PriceAtTime,
			&mID, &mName, &mDesc, &mPrice, &mImage,
		); err != nil {
			return fmt.Errorf("repository.loadItems scan: %w", err)
		}
		if mID.Valid {
			item.MenuItem = &models.MenuItem{
				ID:          int(mID.Int64),
				Name:        mName.String,
				Description: mDesc.String,
				Price:       mPrice.Float64,
				ImageURL:    mImage.String,
			}
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("repository.loadItems rows: %w", err)
	}
	return nil
}

// FindByID retrieves a single order with its items and participants.
func (r *Repository) FindByID(ctx context.Context, orderID int) (*models.Order, error) {
	row := r.db.QueryRow(ctx, orderColumns+` WHERE o.id = $1`, orderID)
	order, err := r.scanOrder(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	if err := r.loadItems(ctx, []*models.Order{order}); err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return order, nil
}

// FindByToken performs a case-sensitive exact lookup by order token.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.Order, error) {
	row := r.db.QueryRow(ctx, orderColumns+` WHERE o.token = $1`, token)
	order, err := r.scanOrder(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByToken: %w", err)
	}
	if err := r.loadItems(ctx, []*models.Order{order}); err != nil {
		return nil, fmt.Errorf("repository.FindByToken: %w", err)
	}
	return order, nil
}

func (r *Repository) list(ctx context.Context, where string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, orderColumns+where+` ORDER BY o.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.list query: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.list scan: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.list rows: %w", err)
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser returns a customer's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	return r.list(ctx, ` WHERE o.user_id = $1`, userID)
}

// ListByDeliveryPerson returns the delivery person's active worklist.
// Delivered and cancelled orders drop out.
func (r *Repository) ListByDeliveryPerson(ctx context.Context, deliveryGuyID int) ([]*models.Order, error) {
	return r.list(ctx,
		` WHERE o.delivery_guy_id = $1 AND o.status IN ('pending', 'out_for_delivery')`,
		deliveryGuyID)
}

// ListAll returns every order, optionally filtered by status, newest first.
func (r *Repository) ListAll(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	if status != "" {
		return r.list(ctx, ` WHERE o.status = $1`, status)
	}
	return r.list(ctx, ``)
}

// UpdateStatus applies the new status as one atomic write; no partial state
// is ever visible to concurrent readers.
func (r *Repository) UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) (*models.Order, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2`, status, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}
	return r.FindByID(ctx, orderID)
}

// AssignDelivery couples assignment and dispatch into one conditional UPDATE:
// delivery_guy_id and status change together or not at all, and only while
// the order is still pending. Concurrent assignments serialize on the row;
// exactly one caller wins.
func (r *Repository) AssignDelivery(ctx context.Context, orderID, deliveryGuyID int) (*models.Order, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET delivery_guy_id = $1, status = 'out_for_delivery', updated_at = NOW()
		WHERE id = $2 AND status = 'pending'`, deliveryGuyID, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository.AssignDelivery: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Order missing or no longer pending; the service disambiguates.
		return nil, models.ErrNotFound
	}
	return r.FindByID(ctx, orderID)
}
