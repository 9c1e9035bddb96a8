// Package server, HTTP yüzeyini birbirine bağlar: gin motoru, middleware'ler,
// rotalar ve geliştirme TLS dinleyicisi.
package server

import (
	"time"

	"coffebless/internal/handlers"
	"coffebless/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig, motoru ayarlar.
type RouterConfig struct {
	CORSOrigins    []string
	TrustedProxies []string
}

// NewRouter, tüm rotaları kayıtlı gin motorunu kurar.
func NewRouter(h *handlers.Handler, logger *zap.Logger, rc RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(logging.GinLogger(logger))
	r.Use(logging.GinRecovery(logger))

	proxies := rc.TrustedProxies
	if len(proxies) == 0 {
		proxies = []string{"127.0.0.1", "::1"}
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, err
	}

	if len(rc.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     rc.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	renderer, err := handlers.LoadTemplates()
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	r.GET("/healthz", h.Health)

	site := r.Group("/")
	site.Use(h.SessionMiddleware())
	{
		site.GET("/checkout", h.CheckoutPage)
		site.POST("/checkout/whatsapp", h.HandleCheckout)
		site.GET("/whatsapp", h.WhatsAppContact)
	}

	api := r.Group("/api")
	api.Use(h.SessionMiddleware())
	{
		api.GET("/menu", h.GetMenu)
		api.GET("/menu/:category", h.GetCategory)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/add", h.AddToCart)
		api.POST("/cart/update", h.UpdateCartItem)
		api.POST("/cart/remove", h.RemoveFromCart)
		api.POST("/cart/clear", h.ClearCart)
		api.POST("/cart/dismiss", h.DismissNotification)
		api.GET("/cart/count", h.GetCartCount)

		api.GET("/pet", h.GetPet)
		api.GET("/pet/ws", h.PetSocket)
		api.POST("/pet/style", h.PetStyle)
		api.POST("/pet/:action", h.PetAction)
	}

	// Admin authentication rotaları (korumasız)
	r.GET("/admin/login", h.AdminLoginPage)
	r.POST("/admin/login", h.AdminLogin)
	r.GET("/admin/logout", h.AdminLogout)
	r.POST("/admin/logout", h.AdminLogout)

	// Admin paneli rotaları (korumalı)
	adm := r.Group("/admin")
	adm.Use(h.AuthMiddleware())
	{
		adm.GET("", h.AdminPage)
		adm.GET("/api/draft", h.AdminDraft)
		adm.POST("/api/draft/field", h.AdminUpdateField)
		adm.POST("/api/draft/product", h.AdminAddProduct)
		adm.POST("/api/draft/category", h.AdminAddCategory)
		adm.POST("/api/draft/delete", h.AdminDeleteProduct)
		adm.POST("/api/save", h.AdminSave)
		adm.POST("/api/reset", h.AdminReset)
		adm.DELETE("/api/categories/:id", h.AdminDeleteCategory)
		adm.GET("/api/export.xlsx", h.AdminExport)
	}

	return r, nil
}
