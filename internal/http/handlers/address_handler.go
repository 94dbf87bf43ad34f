// README: Address book handlers.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"grocery/internal/modules/location"
	"grocery/internal/types"
)

type AddressService interface {
	List(ctx context.Context, userID types.ID, origin *types.Point) ([]location.Address, error)
	Select(ctx context.Context, userID, id types.ID) error
}

type AddressHandler struct {
	location AddressService
}

func NewAddressHandler(svc AddressService) *AddressHandler {
	return &AddressHandler{location: svc}
}

type addressResponse struct {
	ID         types.ID `json:"id"`
	Label      string   `json:"label"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Alt        float64  `json:"alt"`
	IsDefault  bool     `json:"is_default"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// List returns the user's addresses; with lat and lng query parameters they
// are ordered by distance from that point.
func (h *AddressHandler) List(c *gin.Context) {
	userID := c.Param("id")
	if !isValidID(userID) {
		writeError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var origin *types.Point
	if lat, lng := c.Query("lat"), c.Query("lng"); lat != "" || lng != "" {
		la, err1 := strconv.ParseFloat(lat, 64)
		ln, err2 := strconv.ParseFloat(lng, 64)
		if err1 != nil || err2 != nil {
			writeError(c, http.StatusBadRequest, "lat and lng must both be numbers")
			return
		}
		origin = &types.Point{Lat: la, Lng: ln}
	}

	addrs, err := h.location.List(c.Request.Context(), types.ID(userID), origin)
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	out := make([]addressResponse, 0, len(addrs))
	for _, a := range addrs {
		r := addressResponse{
			ID:        a.ID,
			Label:     a.Label,
			Street:    a.Street,
			City:      a.City,
			Lat:       a.Position.Lat,
			Lng:       a.Position.Lng,
			Alt:       a.Position.Alt,
			IsDefault: a.IsDefault,
		}
		if origin != nil {
			d := a.DistanceKm
			r.DistanceKm = &d
		}
		out = append(out, r)
	}
	writeJSON(c, http.StatusOK, gin.H{"addresses": out})
}

func (h *AddressHandler) Select(c *gin.Context) {
	userID, addressID := c.Param("id"), c.Param("addressID")
	if !isValidID(userID) || !isValidID(addressID) {
		writeError(c, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.location.Select(c.Request.Context(), types.ID(userID), types.ID(addressID)); err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok", "address_id": addressID})
}
