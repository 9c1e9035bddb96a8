package handlers

import (
	"net/http"

	"coffebless/internal/catalog"

	"github.com/gin-gonic/gin"
)

// GetMenu returns categories and products. "alert" is set when stored data
// could not be read and the built-in menu is being served instead.
func (h *Handler) GetMenu(c *gin.Context) {
	status := h.catalog.Status()
	resp := gin.H{
		"categories": h.catalog.Categories(),
		"products":   h.catalog.Products(),
		"source":     status.Source,
	}
	if status.Source == catalog.SourceDefaults && status.LastError != "" {
		resp["alert"] = true
		resp["error"] = status.LastError
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategory returns the products of one category.
func (h *Handler) GetCategory(c *gin.Context) {
	products := h.catalog.ProductsByCategory(c.Param("category"))
	c.JSON(http.StatusOK, gin.H{"category": c.Param("category"), "products": products})
}
