package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thriftfinder/internal/adapter/api"
	"thriftfinder/internal/domain/entity"
	"thriftfinder/internal/usecase"
	"thriftfinder/pkg/errors"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type fakeFirebaseAuth struct{}

func (f *fakeFirebaseAuth) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	return "new-uid", nil
}

func (f *fakeFirebaseAuth) VerifyToken(ctx context.Context, token string) (string, error) {
	return "new-uid", nil
}

func (f *fakeFirebaseAuth) DeleteUser(ctx context.Context, uid string) error {
	return nil
}

func newAuthHandlerEnv() (*AuthHandler, *echo.Echo) {
	userRepo := &fakeUserRepo{users: map[string]*entity.User{
		"uid-1": {ID: "uid-1", Email: "alice@example.com", DisplayName: "Alice", Role: entity.RoleCustomer},
	}}
	authUseCase := usecase.NewAuthUseCase(userRepo, &fakeFirebaseAuth{}, 0)

	e := echo.New()
	e.Validator = api.NewValidator()

	return NewAuthHandler(authUseCase), e
}

func TestGetRoleSelfOnly(t *testing.T) {
	h, e := newAuthHandlerEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/getRole", strings.NewReader(`{"uid":"uid-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "uid-1")

	require.NoError(t, h.GetRole(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"customer"`)
}

func TestGetRoleOtherUserForbidden(t *testing.T) {
	h, e := newAuthHandlerEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/getRole", strings.NewReader(`{"uid":"uid-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "someone-else")

	require.NoError(t, h.GetRole(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestGetUserReturnsProfileSlice(t *testing.T) {
	h, e := newAuthHandlerEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/stores/users/uid-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uid")
	c.SetParamValues("uid-1")

	require.NoError(t, h.GetUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"displayName":"Alice"`)
	assert.Contains(t, rec.Body.String(), `"email":"alice@example.com"`)
}

func TestGetUserNotFound(t *testing.T) {
	h, e := newAuthHandlerEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/stores/users/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uid")
	c.SetParamValues("missing")

	require.NoError(t, h.GetUser(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestRegisterValidation(t *testing.T) {
	h, e := newAuthHandlerEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"not-an-email","password":"supersecret","display_name":"Bob"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestRegister(t *testing.T) {
	h, e := newAuthHandlerEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"bob@example.com","password":"supersecret","display_name":"Bob","role":"storeOwner"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"role":"storeOwner"`)
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler()
	if assert.NoError(t, h.Check(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ok")
	}
}
