package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery/internal/http/middleware"
	"grocery/internal/modules/location"
	"grocery/internal/modules/order"
	"grocery/internal/modules/pricing"
	"grocery/internal/types"
)

type nopCheckout struct{}

func (nopCheckout) Quote(context.Context, pricing.QuoteRequest) (pricing.Quote, error) {
	return pricing.Quote{}, location.ErrNotFound
}

func (nopCheckout) ApplyCode(context.Context, string, pricing.QuoteRequest) (pricing.Quote, error) {
	return pricing.Quote{}, pricing.ErrDiscountsDisabled
}

func (nopCheckout) ClearCode(context.Context, string) error { return nil }

type nopOrders struct{}

func (nopOrders) Submit(context.Context, order.SubmitCommand) (order.SubmitResult, error) {
	return order.SubmitResult{}, order.ErrBadRequest
}

func (nopOrders) Get(context.Context, types.ID) (*order.Order, error) { return nil, order.ErrNotFound }

func (nopOrders) Cancel(context.Context, order.CancelCommand) error { return nil }

type nopAddresses struct{}

func (nopAddresses) List(context.Context, types.ID, *types.Point) ([]location.Address, error) {
	return nil, nil
}

func (nopAddresses) Select(context.Context, types.ID, types.ID) error { return nil }

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Checkout:  nopCheckout{},
		Orders:    nopOrders{},
		Addresses: nopAddresses{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_Routes(t *testing.T) {
	r := testRouter()
	cart := `{"user_id":"u1","shop_id":"s1","items":[{"product_id":"p","price":"1","quantity":1}]}`

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/checkout/quote", cart, http.StatusNotFound},
		{http.MethodPost, "/api/checkout/discount", cart, http.StatusUnprocessableEntity},
		{http.MethodDelete, "/api/checkout/discount?session_id=s1", "", http.StatusNoContent},
		{http.MethodPost, "/api/checkout/orders", cart, http.StatusBadRequest},
		{http.MethodGet, "/api/orders/o1", "", http.StatusNotFound},
		{http.MethodGet, "/api/users/u1/addresses", "", http.StatusOK},
		{http.MethodPut, "/api/users/u1/addresses/a1/select", "", http.StatusOK},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body)))
		assert.Equalf(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer("127.0.0.1:0", testRouter(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
