package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"coffebless/internal/admin"
	"coffebless/internal/auth"
	"coffebless/internal/catalog"
	"coffebless/internal/models"
	"coffebless/internal/pet"
	"coffebless/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookie, tarayıcıyı tanımlar; sepetler ve evcil hayvanlar ona bağlıdır.
const SessionCookie = "user_session"

const sessionKey = "session_id"

// CatalogStore, menü verisi üzerindeki işlemleri tanımlar. *catalog.Store bunu
// karşılar.
type CatalogStore interface {
	Status() catalog.Status
	Products() []models.Product
	Product(id string) (models.Product, error)
	ProductsByCategory(categoryID string) []models.Product
	Categories() []models.Category
	SaveProducts(ctx context.Context, products []models.Product) error
	SaveCategories(ctx context.Context, categories []models.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ResetToDefaults(ctx context.Context) error
}

// Config, handler'ların ihtiyaç duyduğu ayarları taşır.
type Config struct {
	WhatsAppPhone     string
	AdminPassword     string
	AdminPasswordHash string
	SecureCookies     bool
	SlugProductIDs    bool
}

// Deps, NewHandler'ın birbirine bağladığı bileşenleri gruplar.
type Deps struct {
	Catalog  CatalogStore
	Carts    *services.CartService
	Email    *services.EmailService
	Security *services.SecurityLogger
	Sessions *auth.Sessions
	Pets     *pet.Hub
	Logger   *zap.Logger
	Config   Config
}

// Handler, HTTP isteklerini yönetir.
type Handler struct {
	catalog     CatalogStore
	cartService *services.CartService
	email       *services.EmailService
	security    *services.SecurityLogger
	sessions    *auth.Sessions
	pets        *pet.Hub
	logger      *zap.Logger
	cfg         Config

	editorsMu sync.Mutex
	editors   map[string]*admin.Editor
}

// NewHandler, yeni bir Handler örneği oluşturur.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Security == nil {
		d.Security = services.NewSecurityLoggerFrom(d.Logger.Named("security"))
	}
	if d.Email == nil {
		d.Email = services.NewEmailService(services.EmailConfig{}, d.Logger)
	}
	if d.Pets == nil {
		d.Pets = pet.NewHub(d.Logger)
	}
	return &Handler{
		catalog:     d.Catalog,
		cartService: d.Carts,
		email:       d.Email,
		security:    d.Security,
		sessions:    d.Sessions,
		pets:        d.Pets,
		logger:      d.Logger,
		cfg:         d.Config,
		editors:     map[string]*admin.Editor{},
	}
}

// SessionMiddleware, her isteğin bir user_session çerezi taşımasını sağlar.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(SessionCookie)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookie, sessionID, 3600*24*30, "/", "", h.cfg.SecureCookies, true)
			h.logger.Debug("session created", zap.String("session", sessionID))
		}
		c.Set(sessionKey, sessionID)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// Health, canlılık kontrollerine cevap verir.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "catalog": h.catalog.Status().Source})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// storageError, başarısız bir depo yazmasına cevap verir. Arayüz "alert": true
// gördüğünde engelleyici bir uyarı gösterir.
func (h *Handler) storageError(c *gin.Context, op string, err error) {
	h.logger.Error(op, zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusBadGateway, gin.H{
		"success": false,
		"error":   "No se pudo guardar en la base de datos: " + err.Error(),
		"alert":   true,
	})
}

// catalogError, katalog hatalarını HTTP durum kodlarına eşler.
func (h *Handler) catalogError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrCategoryInUse):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "La categoría tiene productos"})
	case errors.Is(err, catalog.ErrCategoryNotFound), errors.Is(err, catalog.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Error(op, zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, gin.H{"success": false, "error": "La base de datos no respondió", "alert": true})
	default:
		h.storageError(c, op, err)
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 30*time.Second)
}
