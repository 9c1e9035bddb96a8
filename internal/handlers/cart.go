package handlers

import (
	"errors"
	"net/http"

	"coffebless/internal/catalog"
	"coffebless/internal/services"

	"github.com/gin-gonic/gin"
)

type itemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
	Delta  int    `json:"delta"`
}

// GetCart returns the session's cart summary.
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartService.GetCart(sessionID(c)))
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req services.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	// an omitted quantity means one unit
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	res, err := h.cartService.AddToCart(sessionID(c), req)
	if errors.Is(err, catalog.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Producto no encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "No se pudo agregar"})
		return
	}

	resp := gin.H{
		"success": true,
		"item":    res.Item,
		"merged":  res.Merged,
		"cart":    h.cartService.GetCart(sessionID(c)),
	}
	if res.Parent != nil {
		resp["parent"] = res.Parent
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	if err := h.cartService.UpdateQuantity(sessionID(c), req.ItemID, req.Delta); err != nil {
		h.cartItemError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": h.cartService.GetCart(sessionID(c))})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	if err := h.cartService.RemoveFromCart(sessionID(c), req.ItemID); err != nil {
		h.cartItemError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": h.cartService.GetCart(sessionID(c))})
}

func (h *Handler) ClearCart(c *gin.Context) {
	h.cartService.ClearCart(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": h.cartService.GetCart(sessionID(c))})
}

// DismissNotification hides the "added to cart" toast.
func (h *Handler) DismissNotification(c *gin.Context) {
	h.cartService.DismissNotification(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetCartCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.cartService.GetCartCount(sessionID(c))})
}

func (h *Handler) cartItemError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Producto no está en el carrito"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
