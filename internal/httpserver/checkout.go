package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"foodtruck-ordering/internal/domain"
	checkoutsvc "foodtruck-ordering/internal/service/checkout"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type checkoutResponse struct {
	OrderID   int64              `json:"orderId"`
	Location  string             `json:"location"`
	Status    domain.OrderStatus `json:"status"`
	PickupETA time.Time          `json:"pickupEta"`
	Total     decimal.Decimal    `json:"total"`
}

func (h *handlers) checkout(c *gin.Context) {
	var in checkoutsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	order, err := h.deps.CheckoutSvc.Checkout(c.Request.Context(), actorFrom(c), sessionFrom(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	location := fmt.Sprintf("/api/orders/%d/status", order.ID)
	c.Header("Location", location)
	c.JSON(http.StatusCreated, checkoutResponse{
		OrderID:   order.ID,
		Location:  location,
		Status:    order.Status,
		PickupETA: order.PickupETA,
		Total:     order.Total,
	})
}
