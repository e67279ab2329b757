package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"plantstore/internal/domain/model"
	"plantstore/internal/handler"
	"plantstore/internal/infra/token"
	"plantstore/internal/middleware"
	repo "plantstore/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *CartRepoMock) Save(ctx context.Context, cart *model.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

type PlantRepoMock struct{ mock.Mock }

func (m *PlantRepoMock) List(ctx context.Context, q repo.PlantListQuery) ([]model.Plant, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Plant), args.Get(1).(int64), args.Error(2)
}

func (m *PlantRepoMock) FindByID(ctx context.Context, id int64) (model.Plant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Plant), args.Error(1)
}

func (m *PlantRepoMock) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Plant, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64]model.Plant), args.Error(1)
}

func (m *PlantRepoMock) Create(ctx context.Context, p model.Plant) (model.Plant, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Plant), args.Error(1)
}

func (m *PlantRepoMock) Update(ctx context.Context, p model.Plant) error {
	return m.Called(ctx, p).Error(0)
}

func (m *PlantRepoMock) UpdateStock(ctx context.Context, id int64, inStock bool) error {
	return m.Called(ctx, id, inStock).Error(0)
}

func (m *PlantRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	return m.Called(ctx, orderID, from, to).Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(model.Order), args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}

// TxManagerMock はfnを渡されたreposでそのまま実行する
type TxManagerMock struct {
	orders *OrderRepoMock
	carts  *CartRepoMock
	plants *PlantRepoMock
	audits *AuditRepoMock
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m)
}

func (m *TxManagerMock) Orders() repo.OrderRepository       { return m.orders }
func (m *TxManagerMock) Carts() repo.CartRepository         { return m.carts }
func (m *TxManagerMock) Plants() repo.PlantRepository       { return m.plants }
func (m *TxManagerMock) AuditLogs() repo.AuditLogRepository { return m.audits }

type ImageStoreMock struct{ mock.Mock }

func (m *ImageStoreMock) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, string, error) {
	args := m.Called(ctx, r, size, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *ImageStoreMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type routeRegistrar interface {
	RegisterRoutes(api *echo.Group, gate handler.Gate)
}

// apiFixture は本番と同じ /api/v1 とGateを組み、cookieを発行できるようにする
type apiFixture struct {
	e        *echo.Echo
	issuer   *token.JWTIssuer
	users    *MockUserRepo
	shopper  *model.User
	operator *model.User
}

func newAPIFixture(t *testing.T, routers ...routeRegistrar) apiFixture {
	t.Helper()

	f := apiFixture{
		issuer:   token.NewJWTIssuer("test-secret", time.Hour),
		users:    new(MockUserRepo),
		shopper:  &model.User{ID: 7, FirstName: "Asha", Email: "asha@example.com", Role: model.RoleCustomer, AccountVerified: true},
		operator: &model.User{ID: 1, FirstName: "Ravi", Email: "ravi@example.com", Role: model.RoleAdmin, AccountVerified: true},
	}
	f.users.On("FindByID", mock.Anything, f.shopper.ID).Return(f.shopper, nil).Maybe()
	f.users.On("FindByID", mock.Anything, f.operator.ID).Return(f.operator, nil).Maybe()

	f.e = echo.New()
	f.e.HTTPErrorHandler = handler.ErrorHandler
	api := f.e.Group("/api/v1")
	gate := handler.Gate{Parser: f.issuer, Users: f.users}
	for _, r := range routers {
		r.RegisterRoutes(api, gate)
	}
	return f
}

// cookieFor はuserのJWTをcookie名nameで作る
func (f apiFixture) cookieFor(t *testing.T, name string, u *model.User) *http.Cookie {
	t.Helper()
	raw, _, err := f.issuer.Issue(u.ID, u.Role, u.TokenVersion, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: name, Value: raw}
}

// send はuserのロールのcookieを付けて送る。userがnilならcookie無し。
func (f apiFixture) send(t *testing.T, req *http.Request, u *model.User) *httptest.ResponseRecorder {
	t.Helper()
	if u != nil {
		req.AddCookie(f.cookieFor(t, middleware.CookieName(u.Role), u))
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f apiFixture) sendJSON(t *testing.T, method, path, body string, u *model.User) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return f.send(t, req, u)
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
