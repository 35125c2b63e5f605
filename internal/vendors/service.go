package vendors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ms-event-dashboard/internal/airtable"
	"ms-event-dashboard/internal/auth"
	"ms-event-dashboard/internal/models"
)

// ErrInvalidCredentials hides whether the email or the password was
// wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Store looks up vendor accounts in the record store.
type Store interface {
	VendorByEmail(ctx context.Context, email string) (models.Vendor, error)
}

type Service struct {
	DB        Store
	JWTSecret string
	TokenTTL  time.Duration
}

func NewService(db Store, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{DB: db, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

// Login checks the password against the stored bcrypt hash and issues a
// bearer token. bcrypt's comparison is constant-time; a missing account
// still burns a compare so timing does not leak which case occurred.
func (s *Service) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	vendor, err := s.DB.VendorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, airtable.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(password))
			return models.LoginResponse{}, ErrInvalidCredentials
		}
		return models.LoginResponse{}, fmt.Errorf("vendor lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(password)); err != nil {
		return models.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.JWTSecret, vendor.ID, s.TokenTTL)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return models.LoginResponse{
		Token:    token,
		VendorID: vendor.ID,
		Name:     vendor.Name,
	}, nil
}

// HashPassword produces the bcrypt hash stored in the Vendors table.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
