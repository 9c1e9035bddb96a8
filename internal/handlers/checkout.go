package handlers

import (
	"net/http"

	"coffebless/internal/models"
	"coffebless/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutPage renders the order summary: the lines to read to the cashier
// and the WhatsApp button.
func (h *Handler) CheckoutPage(c *gin.Context) {
	items := h.cartService.Items(sessionID(c))
	data := gin.H{
		"title":      "Tu pedido",
		"empty":      len(items) == 0,
		"contactURL": order.ContactURL(h.cfg.WhatsAppPhone),
	}
	if len(items) > 0 {
		handoff := order.Handoff(h.cfg.WhatsAppPhone, items, models.CheckoutForm{})
		data["dictation"] = order.NewDictation(items)
		data["whatsappURL"] = handoff.URL
		data["receipt"] = handoff.Text
		data["totalItems"] = handoff.TotalItems
	}
	c.HTML(http.StatusOK, "checkout.html", data)
}

// HandleCheckout builds the WhatsApp handoff for the session's cart. The cart
// stays as it is; the customer clears it from the summary page.
func (h *Handler) HandleCheckout(c *gin.Context) {
	var form models.CheckoutForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Formulario inválido")
		return
	}

	items := h.cartService.Items(sessionID(c))
	if len(items) == 0 {
		badRequest(c, "El carrito está vacío")
		return
	}

	handoff := order.Handoff(h.cfg.WhatsAppPhone, items, form)
	h.logger.Info("checkout",
		zap.String("session", sessionID(c)),
		zap.Int("items", handoff.TotalItems),
		zap.Int64("total", handoff.TotalPrice))

	if form.SendCopy && h.email.Enabled() {
		go func() {
			if err := h.email.SendOrderCopy(handoff, form); err != nil {
				h.logger.Warn("order copy not sent", zap.Error(err))
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"url":         handoff.URL,
		"text":        handoff.Text,
		"total_items": handoff.TotalItems,
		"total_price": handoff.TotalPrice,
	})
}

// WhatsAppContact redirects to the café chat with a greeting and no order.
func (h *Handler) WhatsAppContact(c *gin.Context) {
	c.Redirect(http.StatusFound, order.ContactURL(h.cfg.WhatsAppPhone))
}
