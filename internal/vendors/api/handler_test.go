package vendors_api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-event-dashboard/internal/airtable"
	"ms-event-dashboard/internal/models"
	"ms-event-dashboard/internal/utils"
	"ms-event-dashboard/internal/vendors"
	vendors_api "ms-event-dashboard/internal/vendors/api"
)

type MockVendorStore struct {
	mock.Mock
}

func (m *MockVendorStore) VendorByEmail(ctx context.Context, email string) (models.Vendor, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.Vendor), args.Error(1)
}

func newLoginHandler(store *MockVendorStore) *vendors_api.Handler {
	svc := vendors.NewService(store, "test-secret", time.Hour)
	return vendors_api.NewHandler(svc, nil)
}

func postLogin(handler *vendors_api.Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/vendors/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.Login(w, r)
	return w
}

func TestLoginHandlerSuccess(t *testing.T) {
	store := new(MockVendorStore)
	hash, err := vendors.HashPassword("s3cret-pass")
	require.NoError(t, err)

	store.On("VendorByEmail", mock.Anything, "vendor@example.com").Return(models.Vendor{
		ID:           "rec_vnd1",
		Name:         "Retreat Co",
		PasswordHash: hash,
	}, nil)

	w := postLogin(newLoginHandler(store), `{"email":"vendor@example.com","password":"s3cret-pass"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "rec_vnd1", data["vendor_id"])
	assert.NotEmpty(t, data["token"])
}

func TestLoginHandlerRejectsBadCredentials(t *testing.T) {
	store := new(MockVendorStore)
	store.On("VendorByEmail", mock.Anything, "vendor@example.com").Return(models.Vendor{}, airtable.ErrNotFound)

	w := postLogin(newLoginHandler(store), `{"email":"vendor@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
}

func TestLoginHandlerValidatesPayload(t *testing.T) {
	handler := newLoginHandler(new(MockVendorStore))

	w := postLogin(handler, `{"email":"not-an-email","password":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postLogin(handler, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
