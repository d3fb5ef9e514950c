package httpserver

import (
	"net/http"

	"foodtruck-ordering/internal/domain"
	ordersvc "foodtruck-ordering/internal/service/order"
	"github.com/gin-gonic/gin"
)

type cancelRequest struct {
	Reason       string `json:"reason"`
	ContactPhone string `json:"contactPhone"`
}

type statusUpdateRequest struct {
	Status       string `json:"status" binding:"required"`
	CancelReason string `json:"cancelReason"`
}

type ordersResponse struct {
	Orders []domain.Order `json:"orders"`
}

func listResponse(orders []domain.Order) ordersResponse {
	if orders == nil {
		orders = []domain.Order{}
	}
	return ordersResponse{Orders: orders}
}

func (h *handlers) orderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	view, err := h.deps.OrderSvc.Status(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) orderDetails(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := h.deps.OrderSvc.Details(c.Request.Context(), actorFrom(c), id, c.Query("phone"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) cancelOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req cancelRequest
	// empty body is a cancel with no reason
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	order, err := h.deps.OrderSvc.Cancel(c.Request.Context(), actorFrom(c), id, req.Reason, req.ContactPhone)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	order, err := h.deps.OrderSvc.Transition(c.Request.Context(), actorFrom(c), id, ordersvc.TransitionInput{
		Status:       req.Status,
		CancelReason: req.CancelReason,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) lookupOrders(c *gin.Context) {
	var in ordersvc.LookupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	orders, err := h.deps.OrderSvc.Lookup(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(orders))
}

func (h *handlers) myOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.History(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(orders))
}

func (h *handlers) staffQueue(c *gin.Context) {
	orders, err := h.deps.OrderSvc.Queue(c.Request.Context(), actorFrom(c), c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(orders))
}

func (h *handlers) staffHistory(c *gin.Context) {
	orders, err := h.deps.OrderSvc.Recent(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(orders))
}
