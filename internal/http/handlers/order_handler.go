// README: Order handlers for submit/get/cancel.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"grocery/internal/modules/order"
	"grocery/internal/modules/pricing"
	"grocery/internal/types"
)

type OrderService interface {
	Submit(ctx context.Context, cmd order.SubmitCommand) (order.SubmitResult, error)
	Get(ctx context.Context, id types.ID) (*order.Order, error)
	Cancel(ctx context.Context, cmd order.CancelCommand) error
}

type OrderHandler struct {
	order OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{order: svc}
}

type submitOrderReq struct {
	quoteReq
	ExpectedTotal *decimal.Decimal `json:"expected_total"`
}

type cancelOrderReq struct {
	UserID string `json:"user_id"`
}

type orderResponse struct {
	OrderID    types.ID          `json:"order_id"`
	UserID     types.ID          `json:"user_id"`
	Status     order.Status      `json:"status"`
	Kind       pricing.OrderKind `json:"order_kind"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Currency   string            `json:"currency"`
	DeliveryAt time.Time         `json:"delivery_at"`
	CreatedAt  time.Time         `json:"created_at"`
	Payload    order.Payload     `json:"payload"`
}

func (h *OrderHandler) Submit(c *gin.Context) {
	var req submitOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(c, http.StatusBadRequest, msg)
		return
	}
	if req.ShopID == "" {
		writeError(c, http.StatusBadRequest, "shop_id is required")
		return
	}
	res, err := h.order.Submit(c.Request.Context(), order.SubmitCommand{
		Request:       req.toRequest(),
		ExpectedTotal: req.ExpectedTotal,
	})
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"order_id": res.OrderID, "payload": res.Payload})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := h.order.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, orderResponse{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		Kind:       o.Kind,
		Subtotal:   o.Subtotal,
		Currency:   o.Currency,
		DeliveryAt: o.DeliveryAt,
		CreatedAt:  o.CreatedAt,
		Payload:    o.Payload,
	})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	var req cancelOrderReq
	if err := c.ShouldBindJSON(&req); err != nil || !isValidID(req.UserID) {
		writeError(c, http.StatusBadRequest, "user_id is required")
		return
	}
	err := h.order.Cancel(c.Request.Context(), order.CancelCommand{OrderID: types.ID(id), UserID: types.ID(req.UserID)})
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"order_id": id, "status": order.StatusCancelled})
}
