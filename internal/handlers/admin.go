package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coffebless/internal/admin"
	"coffebless/internal/auth"
	"coffebless/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminTokenKey = "admin_token"

// AuthMiddleware checks the signed admin cookie. Pages redirect to the login
// form, API calls get a 401.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(auth.CookieName)
		if err := h.sessions.Verify(token); err != nil {
			if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Sesión expirada"})
				return
			}
			c.Redirect(http.StatusSeeOther, "/admin/login")
			c.Abort()
			return
		}
		c.Set(adminTokenKey, token)
		c.Next()
	}
}

func (h *Handler) AdminLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", gin.H{
		"title": "Acceso administrador",
	})
}

// AdminLogin checks the shared password. Failures re-render the form with an
// empty password field; retries are unlimited.
func (h *Handler) AdminLogin(c *gin.Context) {
	password := c.PostForm("password")

	if err := auth.CheckPassword(password, h.cfg.AdminPassword, h.cfg.AdminPasswordHash); err != nil {
		h.security.LoginAttempt(c.ClientIP(), false)
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"title": "Acceso administrador",
			"error": "Contraseña incorrecta",
		})
		return
	}

	token, err := h.sessions.Issue()
	if err != nil {
		h.logger.Error("admin session", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{
			"title": "Acceso administrador",
			"error": "No se pudo iniciar sesión",
		})
		return
	}
	h.security.LoginAttempt(c.ClientIP(), true)
	c.SetCookie(auth.CookieName, token, int(h.sessions.TTL()/time.Second), "/", "", h.cfg.SecureCookies, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handler) AdminLogout(c *gin.Context) {
	if token, _ := c.Cookie(auth.CookieName); token != "" {
		h.editorsMu.Lock()
		delete(h.editors, token)
		h.editorsMu.Unlock()
	}
	h.security.LogSecurityEvent(services.EventAdminLogout, "admin session closed", c.ClientIP())
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.cfg.SecureCookies, true)
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// editor returns the draft bound to the admin session, opening one from the
// live catalog on first use.
func (h *Handler) editor(c *gin.Context) *admin.Editor {
	token := c.GetString(adminTokenKey)
	h.editorsMu.Lock()
	defer h.editorsMu.Unlock()
	e, ok := h.editors[token]
	if !ok {
		var opts []admin.Option
		if h.cfg.SlugProductIDs {
			opts = append(opts, admin.WithSlugIDs())
		}
		e = admin.NewEditor(h.catalog.Products(), h.catalog.Categories(), opts...)
		h.editors[token] = e
	}
	return e
}

func (h *Handler) AdminPage(c *gin.Context) {
	e := h.editor(c)
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"title":      "Panel de productos",
		"products":   e.Products(),
		"categories": e.Categories(),
		"hasChanges": e.HasChanges(),
	})
}

func draftResponse(e *admin.Editor) gin.H {
	return gin.H{
		"success":     true,
		"products":    e.Products(),
		"categories":  e.Categories(),
		"has_changes": e.HasChanges(),
	}
}

func (h *Handler) AdminDraft(c *gin.Context) {
	c.JSON(http.StatusOK, draftResponse(h.editor(c)))
}

func (h *Handler) AdminUpdateField(c *gin.Context) {
	var req struct {
		ID    string `json:"id" binding:"required"`
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	e := h.editor(c)
	if err := e.UpdateField(req.ID, req.Field, req.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, admin.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draftResponse(e))
}

func (h *Handler) AdminAddProduct(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Price    *int64 `json:"price"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	e := h.editor(c)
	p, ok := e.AddProduct(req.Name, req.Price, req.Category)
	resp := draftResponse(e)
	resp["added"] = ok
	if ok {
		resp["product"] = p
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) AdminAddCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	e := h.editor(c)
	p, ok := e.AddCategory(req.Name)
	resp := draftResponse(e)
	resp["added"] = ok
	if ok {
		resp["product"] = p
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	e := h.editor(c)
	if err := e.DeleteProduct(req.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draftResponse(e))
}

// AdminSave commits the draft to the catalog store. A failed write leaves
// both the live catalog and the draft as they were.
func (h *Handler) AdminSave(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	e := h.editor(c)
	saved, err := e.Commit(ctx, h.catalog)
	if err != nil {
		h.catalogError(c, "catalog save failed", err)
		return
	}
	h.security.LogSecurityEvent(services.EventCatalogSaved, fmt.Sprintf("%d products", len(saved)), c.ClientIP())
	resp := draftResponse(e)
	resp["saved"] = len(saved)
	c.JSON(http.StatusOK, resp)
}

// AdminReset restores the built-in menu and reloads the draft from it.
func (h *Handler) AdminReset(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.catalog.ResetToDefaults(ctx); err != nil {
		h.catalogError(c, "catalog reset failed", err)
		return
	}
	h.security.LogSecurityEvent(services.EventCatalogReset, "catalog restored to defaults", c.ClientIP())

	e := h.editor(c)
	e.Reset(h.catalog.Products(), h.catalog.Categories())
	c.JSON(http.StatusOK, draftResponse(e))
}

// AdminDeleteCategory removes a category from the live catalog. It answers
// 409 while products still use it.
func (h *Handler) AdminDeleteCategory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if err := h.catalog.DeleteCategory(ctx, id); err != nil {
		h.catalogError(c, "delete category failed", err)
		return
	}
	h.editorsMu.Lock()
	for _, e := range h.editors {
		e.RemoveCategory(id)
	}
	h.editorsMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": h.catalog.Categories()})
}

// AdminExport streams the draft as an xlsx file.
func (h *Handler) AdminExport(c *gin.Context) {
	filename := fmt.Sprintf("productos-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := h.editor(c).ExportXLSX(c.Writer); err != nil {
		h.logger.Error("xlsx export failed", zap.Error(err))
		c.Status(http.StatusInternalServerError)
	}
}
