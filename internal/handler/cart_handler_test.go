package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"plantstore/internal/domain/model"
	"plantstore/internal/handler"
	"plantstore/internal/middleware"
	repo "plantstore/internal/repository"
	"plantstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Cart    usecase.CartView `json:"cart"`
}

func newCartAPI(t *testing.T) (apiFixture, *CartRepoMock, *PlantRepoMock) {
	t.Helper()
	carts := new(CartRepoMock)
	plants := new(PlantRepoMock)
	f := newAPIFixture(t, handler.NewCartHandler(usecase.NewCartUsecase(carts, plants)))
	return f, carts, plants
}

func TestCartHandler_Add_Success(t *testing.T) {
	f, carts, plants := newCartAPI(t)

	fern := model.Plant{ID: 10, Name: "Fern", Price: 25, InStock: true}
	plants.On("FindByID", mock.Anything, int64(10)).Return(fern, nil)
	plants.On("FindByIDs", mock.Anything, []int64{10}).Return(map[int64]model.Plant{10: fern}, nil)
	carts.On("GetOrCreateByUserID", mock.Anything, f.shopper.ID).Return(model.Cart{ID: 5, UserID: f.shopper.ID}, nil)
	carts.On("Save", mock.Anything, mock.Anything).Return(nil)

	rec := f.sendJSON(t, http.MethodPost, "/api/v1/cart/add", `{"plantId":10,"quantity":2}`, f.shopper)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeAs[cartResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Item added to cart", body.Message)
	assert.Equal(t, int64(50), body.Cart.TotalPrice)
	require.Len(t, body.Cart.Items, 1)
	assert.Equal(t, "Fern", body.Cart.Items[0].Plant.Name)
}

// quantityが無い／null／plantIdが無い場合は usecase まで行かない
func TestCartHandler_Add_MissingFields(t *testing.T) {
	bodies := []string{
		`{"plantId":10}`,
		`{"plantId":10,"quantity":null}`,
		`{"quantity":1}`,
	}

	for _, b := range bodies {
		t.Run(b, func(t *testing.T) {
			f, carts, plants := newCartAPI(t)

			rec := f.sendJSON(t, http.MethodPost, "/api/v1/cart/add", b, f.shopper)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Please provide plantId and quantity")
			plants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestCartHandler_Update_ZeroQuantityIsAccepted(t *testing.T) {
	f, carts, plants := newCartAPI(t)

	carts.On("FindByUserID", mock.Anything, f.shopper.ID).Return(model.Cart{
		ID:         5,
		UserID:     f.shopper.ID,
		Items:      []model.CartItem{{PlantID: 10, Quantity: 2, PriceAtTime: 25}},
		TotalPrice: 50,
	}, nil)
	carts.On("Save", mock.Anything, mock.MatchedBy(func(c *model.Cart) bool {
		return len(c.Items) == 0 && c.TotalPrice == 0
	})).Return(nil)
	plants.On("FindByIDs", mock.Anything, []int64{}).Return(map[int64]model.Plant{}, nil)

	rec := f.sendJSON(t, http.MethodPut, "/api/v1/cart/update", `{"plantId":10,"quantity":0}`, f.shopper)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeAs[cartResponse](t, rec)
	assert.Empty(t, body.Cart.Items)
	carts.AssertExpectations(t)
}

func TestCartHandler_Add_QuantityAboveLimit(t *testing.T) {
	f, carts, plants := newCartAPI(t)

	plants.On("FindByID", mock.Anything, int64(10)).Return(model.Plant{ID: 10, Price: 25, InStock: true}, nil)
	carts.On("GetOrCreateByUserID", mock.Anything, f.shopper.ID).Return(model.Cart{ID: 5, UserID: f.shopper.ID}, nil)

	rec := f.sendJSON(t, http.MethodPost, "/api/v1/cart/add", `{"plantId":10,"quantity":9223372036854775807}`, f.shopper)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must not exceed")
	carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartHandler_Get_NoCartYet(t *testing.T) {
	f, carts, _ := newCartAPI(t)
	carts.On("FindByUserID", mock.Anything, f.shopper.ID).Return(model.Cart{}, repo.ErrNotFound)

	rec := f.sendJSON(t, http.MethodGet, "/api/v1/cart", "", f.shopper)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeAs[cartResponse](t, rec)
	assert.Equal(t, f.shopper.ID, body.Cart.User)
	assert.NotNil(t, body.Cart.Items)
	assert.Equal(t, int64(0), body.Cart.TotalPrice)
}

// カートは顧客専用。管理者のcookieでは入れない
func TestCartHandler_CustomerScopeOnly(t *testing.T) {
	f, carts, _ := newCartAPI(t)

	tests := []struct {
		name   string
		cookie func() *http.Cookie
		status int
		msg    string
	}{
		{name: "no cookie", cookie: func() *http.Cookie { return nil }, status: http.StatusUnauthorized, msg: "Customer is not authenticated"},
		{
			name:   "admin cookie",
			cookie: func() *http.Cookie { return f.cookieFor(t, middleware.AdminCookie, f.operator) },
			status: http.StatusUnauthorized,
			msg:    "Customer is not authenticated",
		},
		{
			name:   "admin token under customer cookie name",
			cookie: func() *http.Cookie { return f.cookieFor(t, middleware.CustomerCookie, f.operator) },
			status: http.StatusForbidden,
			msg:    "Admin is not authorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			if ck := tt.cookie(); ck != nil {
				req.AddCookie(ck)
			}
			rec := f.send(t, req, nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
	carts.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}
