// README: Checkout handlers: quote, apply and clear discount codes.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"grocery/internal/modules/pricing"
	"grocery/internal/types"
)

type CheckoutService interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (pricing.Quote, error)
	ApplyCode(ctx context.Context, raw string, req pricing.QuoteRequest) (pricing.Quote, error)
	ClearCode(ctx context.Context, sessionID string) error
}

type CheckoutHandler struct {
	pricing CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{pricing: svc}
}

type cartItemReq struct {
	ProductID       string          `json:"product_id"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	PreparationTime string          `json:"preparation_time"`
}

type quoteReq struct {
	SessionID string        `json:"session_id"`
	UserID    string        `json:"user_id"`
	AddressID string        `json:"address_id"`
	ShopID    string        `json:"shop_id"`
	ShopLat   float64       `json:"shop_lat"`
	ShopLng   float64       `json:"shop_lng"`
	ShopAlt   float64       `json:"shop_alt"`
	OrderKind string        `json:"order_kind"`
	Items     []cartItemReq `json:"items"`
}

func (r quoteReq) toRequest() pricing.QuoteRequest {
	req := pricing.QuoteRequest{
		SessionID: r.SessionID,
		UserID:    types.ID(r.UserID),
		AddressID: types.ID(r.AddressID),
		ShopID:    r.ShopID,
		Shop:      types.Point{Lat: r.ShopLat, Lng: r.ShopLng, Alt: r.ShopAlt},
		Kind:      pricing.OrderKind(r.OrderKind),
		Items:     make([]pricing.CartItem, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		req.Items = append(req.Items, pricing.CartItem{
			ProductID:       it.ProductID,
			Price:           it.Price,
			Quantity:        it.Quantity,
			PreparationTime: it.PreparationTime,
		})
	}
	return req
}

func (r quoteReq) validate() string {
	if !isValidID(r.UserID) {
		return "invalid user_id"
	}
	if r.AddressID != "" && !isValidID(r.AddressID) {
		return "invalid address_id"
	}
	if len(r.Items) == 0 {
		return "items are required"
	}
	return ""
}

type applyCodeReq struct {
	quoteReq
	Code string `json:"code"`
}

type quoteResponse struct {
	SessionID              string               `json:"session_id,omitempty"`
	AddressID              types.ID             `json:"address_id"`
	Currency               string               `json:"currency"`
	Subtotal               decimal.Decimal      `json:"subtotal"`
	ServiceFee             decimal.Decimal      `json:"service_fee"`
	DeliveryFee            decimal.Decimal      `json:"delivery_fee"`
	PromoDiscount          decimal.Decimal      `json:"promo_discount"`
	ReferralDiscount       decimal.Decimal      `json:"referral_discount"`
	DiscountAmount         decimal.Decimal      `json:"discount_amount"`
	GrandTotal             decimal.Decimal      `json:"grand_total"`
	DiscountKind           pricing.DiscountKind `json:"discount_kind"`
	DiscountCode           string               `json:"discount_code,omitempty"`
	DiscountsEnabled       bool                 `json:"discounts_enabled"`
	DistanceKm             float64              `json:"distance_km"`
	UnitsSurcharge         decimal.Decimal      `json:"units_surcharge"`
	DeliveryFeeCapped      bool                 `json:"delivery_fee_capped"`
	TravelMinutes          int                  `json:"travel_minutes"`
	ProcessingMinutes      int                  `json:"processing_minutes"`
	EstimatedDeliveryAt    time.Time            `json:"estimated_delivery_at"`
	EstimatedDeliveryLabel string               `json:"estimated_delivery_label"`
}

func newQuoteResponse(q pricing.Quote) quoteResponse {
	kind := pricing.KindNone
	if q.Discount != nil {
		kind = q.Discount.Kind()
	}
	return quoteResponse{
		SessionID:              q.SessionID,
		AddressID:              q.AddressID,
		Currency:               q.Currency,
		Subtotal:               q.Subtotal,
		ServiceFee:             q.Result.ServiceFee,
		DeliveryFee:            q.Result.DeliveryFee,
		PromoDiscount:          q.Totals.PromoDiscount,
		ReferralDiscount:       q.Totals.ReferralDiscount,
		DiscountAmount:         q.Result.DiscountAmount,
		GrandTotal:             q.Result.GrandTotal,
		DiscountKind:           kind,
		DiscountCode:           pricing.CodeOf(q.Discount),
		DiscountsEnabled:       q.DiscountsEnabled,
		DistanceKm:             q.DistanceKm,
		UnitsSurcharge:         q.Delivery.UnitsSurcharge,
		DeliveryFeeCapped:      q.Delivery.Capped,
		TravelMinutes:          q.Estimate.TravelMinutes,
		ProcessingMinutes:      q.Estimate.ProcessingMinutes,
		EstimatedDeliveryAt:    q.Result.EstimatedDeliveryAt,
		EstimatedDeliveryLabel: q.Result.EstimatedDeliveryLabel,
	}
}

type advisoryResponse struct {
	Error string        `json:"error"`
	Quote quoteResponse `json:"quote"`
}

func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(c, http.StatusBadRequest, msg)
		return
	}
	q, err := h.pricing.Quote(c.Request.Context(), req.toRequest())
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newQuoteResponse(q))
}

// ApplyCode answers 422 with the undiscounted quote when the code was not
// applied; checkout can still proceed.
func (h *CheckoutHandler) ApplyCode(c *gin.Context) {
	var req applyCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(c, http.StatusBadRequest, msg)
		return
	}
	q, err := h.pricing.ApplyCode(c.Request.Context(), req.Code, req.toRequest())
	if err != nil {
		if pricing.IsAdvisory(err) {
			writeJSON(c, http.StatusUnprocessableEntity, advisoryResponse{Error: advisoryMessage(err), Quote: newQuoteResponse(q)})
			return
		}
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newQuoteResponse(q))
}

func (h *CheckoutHandler) ClearCode(c *gin.Context) {
	sessionID := c.Query("session_id")
	if !isValidID(sessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}
	if err := h.pricing.ClearCode(c.Request.Context(), sessionID); err != nil {
		writeCheckoutError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
