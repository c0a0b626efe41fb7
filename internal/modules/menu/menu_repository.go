package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-ordering/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the menu store.
type RepositoryInterface interface {
	List(ctx context.Context, includeUnavailable bool) ([]*models.MenuItem, error)
	FindByID(ctx context.Context, itemID int) (*models.MenuItem, error)
	Create(ctx context.Context, req models.CreateMenuItemRequest) (*models.MenuItem, error)
	Update(ctx context.Context, itemID int, req models.UpdateMenuItemRequest) (*models.MenuItem, error)
	Delete(ctx context.Context, itemID int) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const menuColumns = `id, name, description, price, image_url, available, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price,
		&item.ImageURL, &item.Available, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan menu item: %w", err)
	}
	return item, nil
}

func (r *Repository) List(ctx context.Context, includeUnavailable bool) ([]*models.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items`
	if !includeUnavailable {
		query += ` WHERE available = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.List: %w", err)
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.List scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.List rows: %w", err)
	}
	return items, nil
}

func (r *Repository) FindByID(ctx context.Context, itemID int) (*models.MenuItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, itemID)
	item, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return item, nil
}

func (r *Repository) Create(ctx context.Context, req models.CreateMenuItemRequest) (*models.MenuItem, error) {
	item := &models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO menu_items (name, description, price, image_url, available)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at, updated_at`,
		req.Name, req.Description, req.Price, req.ImageURL,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return item, nil
}

func (r *Repository) Update(ctx context.Context, itemID int, req models.UpdateMenuItemRequest) (*models.MenuItem, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *req.Description)
		argIdx++
	}
	if req.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", argIdx))
		args = append(args, *req.Price)
		argIdx++
	}
	if req.ImageURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("image_url = $%d", argIdx))
		args = append(args, *req.ImageURL)
		argIdx++
	}
	if req.Available != nil {
		setClauses = append(setClauses, fmt.Sprintf("available = $%d", argIdx))
		args = append(args, *req.Available)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, itemID)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, itemID)

	query := fmt.Sprintf(`UPDATE menu_items SET %s WHERE id = $%d RETURNING `+menuColumns,
		strings.Join(setClauses, ", "), argIdx)

	item, err := scanMenuItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return item, nil
}

// Delete removes a menu item. Historical orders keep their own price and
// item snapshots, so deletion never rewrites history.
func (r *Repository) Delete(ctx context.Context, itemID int) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("repository.Delete: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
