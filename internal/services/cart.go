package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coffebless/internal/cart"
	"coffebless/internal/models"

	"go.uber.org/zap"
)

// ErrItemNotFound, oturumun sepetinde olmayan bir satır ID'si için döner.
var ErrItemNotFound = errors.New("cart item not found")

// ProductSource, sepet satırına konan ürün kopyasını çözer.
type ProductSource interface {
	Product(id string) (models.Product, error)
}

// AddRequest, sepete ekleme isteğidir
type AddRequest struct {
	ProductID     string                `json:"product_id" binding:"required"`
	Quantity      int                   `json:"quantity"`
	Size          models.Size           `json:"size"`
	Customization *models.Customization `json:"customization"`
}

type cartSession struct {
	cart    *cart.Cart
	touched time.Time
}

// CartService, sepet işlemlerini yönetir. Her tarayıcı oturumunun bellekte
// bir sepeti vardır.
type CartService struct {
	products ProductSource
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time
	cartOpts []cart.Option

	mu       sync.Mutex
	sessions map[string]*cartSession
}

// CartOption, CartService'i yapılandırır.
type CartOption func(*CartService)

// WithCartTTL, dokunulmamış bir sepetin temizlikte ne kadar yaşayacağını belirler.
func WithCartTTL(ttl time.Duration) CartOption {
	return func(cs *CartService) { cs.ttl = ttl }
}

// WithCartClock, time.Now'ı değiştirir.
func WithCartClock(now func() time.Time) CartOption {
	return func(cs *CartService) { cs.now = now }
}

// WithCartOptions, servisin oluşturduğu her sepete iletilir.
func WithCartOptions(opts ...cart.Option) CartOption {
	return func(cs *CartService) { cs.cartOpts = append(cs.cartOpts, opts...) }
}

// NewCartService, yeni bir CartService örneği oluşturur
func NewCartService(products ProductSource, logger *zap.Logger, opts ...CartOption) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cs := &CartService{
		products: products,
		logger:   logger,
		ttl:      24 * time.Hour,
		now:      time.Now,
		sessions: map[string]*cartSession{},
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// withCart, fn'i oturumun sepetinde çalıştırır; sepet ilk kullanımda oluşturulur.
func (cs *CartService) withCart(sessionID string, fn func(c *cart.Cart)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	s, ok := cs.sessions[sessionID]
	if !ok {
		s = &cartSession{cart: cart.New(cs.cartOpts...)}
		cs.sessions[sessionID] = s
		cs.logger.Debug("cart created", zap.String("session", sessionID))
	}
	s.touched = cs.now()
	fn(s.cart)
}

// GetCart, session ID'ye göre sepeti döndürür
func (cs *CartService) GetCart(sessionID string) models.CartSummary {
	var sum models.CartSummary
	cs.withCart(sessionID, func(c *cart.Cart) { sum = c.Summary() })
	return sum
}

// Items, oturumun satırlarını ekleme sırasıyla döndürür.
func (cs *CartService) Items(sessionID string) []models.CartItem {
	var items []models.CartItem
	cs.withCart(sessionID, func(c *cart.Cart) { items = c.Items() })
	return items
}

// AddToCart, sepete ürün ekler
func (cs *CartService) AddToCart(sessionID string, req AddRequest) (cart.AddResult, error) {
	product, err := cs.products.Product(req.ProductID)
	if err != nil {
		return cart.AddResult{}, fmt.Errorf("add to cart: %w", err)
	}

	var res cart.AddResult
	cs.withCart(sessionID, func(c *cart.Cart) {
		res = c.Add(product, req.Quantity, req.Size, req.Customization)
	})

	fields := []zap.Field{
		zap.String("session", sessionID),
		zap.String("product_id", product.ID),
		zap.Int("quantity", req.Quantity),
		zap.Bool("merged", res.Merged),
	}
	if res.Parent != nil {
		fields = append(fields, zap.String("parent_item", res.Parent.ID))
	}
	cs.logger.Info("adding item", fields...)
	return res, nil
}

// UpdateQuantity, bir satıra delta ekler; sıfıra inen satır ekstralarıyla
// birlikte silinir.
func (cs *CartService) UpdateQuantity(sessionID, itemID string, delta int) error {
	var found bool
	cs.withCart(sessionID, func(c *cart.Cart) {
		if _, found = c.Item(itemID); found {
			c.UpdateQuantity(itemID, delta)
		}
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	cs.logger.Info("updating quantity", zap.String("session", sessionID), zap.String("item", itemID), zap.Int("delta", delta))
	return nil
}

// RemoveFromCart, sepetten ürün kaldırır
func (cs *CartService) RemoveFromCart(sessionID, itemID string) error {
	var found bool
	cs.withCart(sessionID, func(c *cart.Cart) {
		if _, found = c.Item(itemID); found {
			c.Remove(itemID)
		}
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	cs.logger.Info("removing item", zap.String("session", sessionID), zap.String("item", itemID))
	return nil
}

// ClearCart, sepeti temizler
func (cs *CartService) ClearCart(sessionID string) {
	cs.withCart(sessionID, func(c *cart.Cart) { c.Clear() })
	cs.logger.Info("clearing cart", zap.String("session", sessionID))
}

// DismissNotification, "sepete eklendi" bildirimini kaldırır.
func (cs *CartService) DismissNotification(sessionID string) {
	cs.withCart(sessionID, func(c *cart.Cart) { c.DismissNotification() })
}

// GetCartCount, sepetteki toplam ürün sayısını döndürür
func (cs *CartService) GetCartCount(sessionID string) int {
	var n int
	cs.withCart(sessionID, func(c *cart.Cart) { n = c.TotalItems() })
	return n
}

// Sessions, canlı sepet sayısıdır.
func (cs *CartService) Sessions() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.sessions)
}

// Sweep, TTL'den uzun süre dokunulmamış sepetleri siler ve kaç tanesinin
// gittiğini döndürür.
func (cs *CartService) Sweep() int {
	if cs.ttl <= 0 {
		return 0
	}
	cutoff := cs.now().Add(-cs.ttl)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	n := 0
	for id, s := range cs.sessions {
		if s.touched.Before(cutoff) {
			delete(cs.sessions, id)
			n++
		}
	}
	if n > 0 {
		cs.logger.Info("idle carts swept", zap.Int("count", n), zap.Int("remaining", len(cs.sessions)))
	}
	return n
}

// RunSweeper, ctx bitene kadar her aralıkta Sweep çağırır.
func (cs *CartService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cs.Sweep()
		}
	}
}
