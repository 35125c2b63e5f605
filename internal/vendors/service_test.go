package vendors_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-event-dashboard/internal/airtable"
	"ms-event-dashboard/internal/auth"
	"ms-event-dashboard/internal/models"
	"ms-event-dashboard/internal/vendors"
)

type MockVendorStore struct {
	mock.Mock
}

func (m *MockVendorStore) VendorByEmail(ctx context.Context, email string) (models.Vendor, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.Vendor), args.Error(1)
}

func TestLoginIssuesTokenForValidCredentials(t *testing.T) {
	store := new(MockVendorStore)
	svc := vendors.NewService(store, "test-secret", time.Hour)

	hash, err := vendors.HashPassword("s3cret-pass")
	require.NoError(t, err)

	store.On("VendorByEmail", mock.Anything, "vendor@example.com").Return(models.Vendor{
		ID:           "rec_vnd1",
		Name:         "Retreat Co",
		Email:        "vendor@example.com",
		PasswordHash: hash,
	}, nil)

	resp, err := svc.Login(context.Background(), "vendor@example.com", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, "rec_vnd1", resp.VendorID)
	assert.Equal(t, "Retreat Co", resp.Name)

	// The token round-trips through the auth layer.
	vendorID, err := auth.ParseToken("test-secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "rec_vnd1", vendorID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := new(MockVendorStore)
	svc := vendors.NewService(store, "test-secret", time.Hour)

	hash, err := vendors.HashPassword("correct-pass")
	require.NoError(t, err)

	store.On("VendorByEmail", mock.Anything, "vendor@example.com").Return(models.Vendor{
		ID:           "rec_vnd1",
		PasswordHash: hash,
	}, nil)

	_, err = svc.Login(context.Background(), "vendor@example.com", "wrong-pass")
	assert.ErrorIs(t, err, vendors.ErrInvalidCredentials)
}

func TestLoginHidesUnknownAccounts(t *testing.T) {
	store := new(MockVendorStore)
	svc := vendors.NewService(store, "test-secret", time.Hour)

	store.On("VendorByEmail", mock.Anything, "nobody@example.com").Return(models.Vendor{}, airtable.ErrNotFound)

	// An unknown email yields the same error as a wrong password.
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, vendors.ErrInvalidCredentials)
}

func TestLoginPropagatesStoreFailures(t *testing.T) {
	store := new(MockVendorStore)
	svc := vendors.NewService(store, "test-secret", time.Hour)

	store.On("VendorByEmail", mock.Anything, "vendor@example.com").Return(models.Vendor{}, errors.New("store down"))

	_, err := svc.Login(context.Background(), "vendor@example.com", "whatever")
	require.Error(t, err)
	assert.NotErrorIs(t, err, vendors.ErrInvalidCredentials)
}
