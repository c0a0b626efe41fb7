package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-ordering/internal/models"
	"food-ordering/pkg/email"
	"food-ordering/pkg/logger"
	"food-ordering/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL = 24 * time.Hour
	otpDigits      = 6
)

// ServiceInterface defines the contract for the user service.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, userID int) (*models.User, error)
	UpdateAddress(ctx context.Context, userID int, req models.UpdateAddressRequest) error
	ListDeliveryPersonnel(ctx context.Context) ([]*models.User, error)
	ListCustomers(ctx context.Context) ([]*models.User, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
}

// Service implements signup/login and the OTP password-reset flow. Admin and
// delivery accounts are provisioned out of band; signup only creates
// customers.
type Service struct {
	repo      RepositoryInterface
	mailer    email.ServiceInterface
	jwtSecret string
	otpTTL    time.Duration
	log       *logger.Logger
}

func NewService(repo RepositoryInterface, mailer email.ServiceInterface, jwtSecret string, otpTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		otpTTL:    otpTTL,
		log:       log.WithComponent("users"),
	}
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup: %w", err)
	}

	user := &models.User{
		Name:    req.Name,
		Email:   req.Email,
		Role:    models.RoleCustomer,
		Address: req.Address,
	}
	user, err = s.repo.Create(ctx, user, string(hash))
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *Service) issueToken(user *models.User) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("service.issueToken: %w", err)
	}

	user.PasswordHash = ""
	return &models.AuthResponse{AccessToken: signed, User: user}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateAddress changes the caller's stored delivery address. It does not
// touch addresses already snapshotted on placed orders.
func (s *Service) UpdateAddress(ctx context.Context, userID int, req models.UpdateAddressRequest) error {
	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address cannot be empty", models.ErrValidation)
	}
	return s.repo.UpdateAddress(ctx, userID, req.Address)
}

// ListCustomers backs the admin's user management view.
func (s *Service) ListCustomers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.ListByRole(ctx, models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// ListDeliveryPersonnel backs the admin's assignment picker.
func (s *Service) ListDeliveryPersonnel(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.ListByRole(ctx, models.RoleDelivery)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// ForgotPassword stores a short-lived OTP and emails it. An unknown email
// returns success to avoid account enumeration.
func (s *Service) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.ForgotPassword: %w", err)
	}

	otp, err := utils.NewNumericOTP(otpDigits)
	if err != nil {
		return fmt.Errorf("service.ForgotPassword: %w", err)
	}
	if err := s.repo.SetResetOTP(ctx, user.ID, otp, time.Now().Add(s.otpTTL)); err != nil {
		return fmt.Errorf("service.ForgotPassword: %w", err)
	}

	subject, text, html := email.PasswordResetOTP(user.Name, otp, s.otpTTL)
	if err := s.mailer.SendEmail(ctx, user.Email, subject, text, html); err != nil {
		// The OTP is stored; the user can retry the email.
		s.log.Error("failed to send reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	user, err := s.repo.FindByResetOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service.ResetPassword: %w", err)
	}
	return s.repo.UpdatePasswordAndClearOTP(ctx, user.ID, string(hash))
}
