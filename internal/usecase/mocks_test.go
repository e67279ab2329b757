package usecase_test

import (
	"context"
	"io"
	"testing"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"
	"plantstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定する
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders    repo.OrderRepository
	carts     repo.CartRepository
	plants    repo.PlantRepository
	auditLogs repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository       { return r.orders }
func (r *TxReposMock) Carts() repo.CartRepository         { return r.carts }
func (r *TxReposMock) Plants() repo.PlantRepository       { return r.plants }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Save(ctx context.Context, cart *model.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

var _ repo.CartRepository = (*CartRepoMock)(nil)

type PlantRepoMock struct{ mock.Mock }

func (m *PlantRepoMock) List(ctx context.Context, q repo.PlantListQuery) ([]model.Plant, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Plant)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *PlantRepoMock) FindByID(ctx context.Context, id int64) (model.Plant, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Plant)
	return p, args.Error(1)
}

func (m *PlantRepoMock) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Plant, error) {
	args := m.Called(ctx, ids)
	ps, _ := args.Get(0).(map[int64]model.Plant)
	return ps, args.Error(1)
}

func (m *PlantRepoMock) Create(ctx context.Context, p model.Plant) (model.Plant, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Plant)
	return out, args.Error(1)
}

func (m *PlantRepoMock) Update(ctx context.Context, p model.Plant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PlantRepoMock) UpdateStock(ctx context.Context, id int64, inStock bool) error {
	args := m.Called(ctx, id, inStock)
	return args.Error(0)
}

func (m *PlantRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repo.PlantRepository = (*PlantRepoMock)(nil)

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	args := m.Called(ctx, orderID, from, to)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Get(1).(int64), args.Error(2)
}

var _ repo.OrderRepository = (*OrderRepoMock)(nil)

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

var _ repo.AuditLogRepository = (*AuditRepoMock)(nil)

type ImageStoreMock struct{ mock.Mock }

func (m *ImageStoreMock) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, string, error) {
	args := m.Called(ctx, r, size, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *ImageStoreMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var _ usecase.ImageStore = (*ImageStoreMock)(nil)

// =====================
// helper
// =====================

// assertHTTPError はステータスとメッセージの一部を確認する
func assertHTTPError(t *testing.T, err error, status int, wantSubstr string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok, "want *HTTPError, got %v", err) {
		return
	}
	assert.Equal(t, status, he.Status)
	assert.Contains(t, he.Message, wantSubstr)
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	assertHTTPError(t, err, status, "")
}

