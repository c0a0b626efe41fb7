package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for interacting with user storage.
type RepositoryInterface interface {
	FindByID(ctx context.Context, userID int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User, passwordHash string) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	UpdateAddress(ctx context.Context, userID int, address string) error

	SetResetOTP(ctx context.Context, userID int, otp string, expiresAt time.Time) error
	FindByResetOTP(ctx context.Context, email, otp string) (*models.User, error)
	UpdatePasswordAndClearOTP(ctx context.Context, userID int, passwordHash string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const userColumns = `id, name, email, password_hash, role, address, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.Address, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, userID int) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *Repository) Create(ctx context.Context, user *models.User, passwordHash string) (*models.User, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		user.Name, user.Email, passwordHash, user.Role, user.Address,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("repository.Create: %w", models.ErrEmailTaken)
		}
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return user, nil
}

func (r *Repository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByRole: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByRole scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListByRole rows: %w", err)
	}
	return users, nil
}

func (r *Repository) UpdateAddress(ctx context.Context, userID int, address string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users
		SET address = $1, updated_at = NOW()
		WHERE id = $2`, address, userID)
	if err != nil {
		return fmt.Errorf("repository.UpdateAddress: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetResetOTP stores the one-time code with its expiry on the user row; the
// database, not process memory, holds the pending reset so restarts and
// multiple instances behave identically.
func (r *Repository) SetResetOTP(ctx context.Context, userID int, otp string, expiresAt time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users
		SET reset_otp = $1, reset_otp_expires_at = $2, updated_at = NOW()
		WHERE id = $3`, otp, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("repository.SetResetOTP: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) FindByResetOTP(ctx context.Context, email, otp string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 AND reset_otp = $2 AND reset_otp_expires_at > NOW()`, email, otp)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidOTP
		}
		return nil, fmt.Errorf("repository.FindByResetOTP: %w", err)
	}
	return user, nil
}

func (r *Repository) UpdatePasswordAndClearOTP(ctx context.Context, userID int, passwordHash string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, reset_otp = NULL, reset_otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("repository.UpdatePasswordAndClearOTP: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
