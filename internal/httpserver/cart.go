package httpserver

import (
	"net/http"

	"foodtruck-ordering/internal/domain"
	cartsvc "foodtruck-ordering/internal/service/cart"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type addToCartRequest struct {
	MenuItemID  int64   `json:"menuItemId" binding:"required"`
	Quantity    int     `json:"quantity" binding:"max=999"`
	Notes       string  `json:"notes" binding:"max=250"`
	ModifierIDs []int64 `json:"modifierIds"`
}

type lineIndexRequest struct {
	Index    *int `json:"index" binding:"required"`
	Quantity int  `json:"quantity" binding:"max=999"`
}

type cartLineResponse struct {
	Index int `json:"index"`
	domain.CartLine
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"itemCount"`
}

func toCartResponse(cart *domain.Cart) cartResponse {
	resp := cartResponse{
		Lines:     make([]cartLineResponse, 0, len(cart.Lines)),
		Subtotal:  cart.Subtotal(),
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
	for i, l := range cart.Lines {
		resp.Lines = append(resp.Lines, cartLineResponse{Index: i, CartLine: l, LineTotal: l.LineTotal()})
	}
	return resp
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	cart, err := h.deps.CartSvc.Add(c.Request.Context(), sessionFrom(c), cartsvc.AddInput{
		MenuItemID:  req.MenuItemID,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
		ModifierIDs: req.ModifierIDs,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) updateCartQuantity(c *gin.Context) {
	var req lineIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	cart, err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), sessionFrom(c), *req.Index, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) removeFromCart(c *gin.Context) {
	var req lineIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	cart, err := h.deps.CartSvc.Remove(c.Request.Context(), sessionFrom(c), *req.Index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) clearCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Clear(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}
