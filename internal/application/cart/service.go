package cart

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketplace/storefront/internal/domain/cart"
	"github.com/marketplace/storefront/internal/domain/shared"
	"github.com/marketplace/storefront/internal/infrastructure/persistence"
)

// CurrencyGateway is the slice of the currency service the cart needs:
// converting between currencies and formatting display amounts.
type CurrencyGateway interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
	Format(ctx context.Context, amount decimal.Decimal, code string) string
}

// Store persists the cart contents between sessions
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Service owns the cart and keeps its display prices consistent with
// the user's currency.
//
// All mutations run under one mutex. Currency changes recompute display
// prices asynchronously from the immutable original prices; each batch
// carries a generation token and only the newest batch may commit, so
// rapid back-to-back currency changes settle on the last one.
type Service struct {
	mu       sync.Mutex
	cart     *cart.Cart
	display  string
	currency CurrencyGateway
	state    Store
	logger   *zap.Logger

	generation atomic.Uint64
	batches    sync.WaitGroup
}

// NewService creates the cart service and loads any persisted cart.
// A corrupt persisted cart is discarded and replaced with an empty one.
func NewService(state Store, currency CurrencyGateway, displayCurrency string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		currency: currency,
		state:    state,
		display:  displayCurrency,
		logger:   logger,
	}
	s.cart = s.loadCart()
	return s
}

func (s *Service) loadCart() *cart.Cart {
	data, ok, err := s.state.Get(persistence.KeyCart)
	if err != nil {
		s.logger.Warn("Failed to load persisted cart", zap.Error(err))
		return cart.New()
	}
	if !ok {
		return cart.New()
	}

	var items []cart.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Discarding corrupt persisted cart", zap.Error(err))
		return cart.New()
	}
	return cart.NewFromItems(items)
}

// persistLocked writes the cart to the store. Callers hold s.mu.
func (s *Service) persistLocked() {
	data, err := json.Marshal(s.cart.Items())
	if err != nil {
		s.logger.Error("Failed to encode cart", zap.Error(err))
		return
	}
	if err := s.state.Set(persistence.KeyCart, data); err != nil {
		s.logger.Error("Failed to persist cart", zap.Error(err))
	}
}

// AddItem adds a product to the cart, merging quantities when the
// product is already present. The display price is computed immediately
// in the current display currency.
func (s *Service) AddItem(ctx context.Context, req AddItemRequest) (Summary, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item, err := cart.NewLineItem(req.ProductID, req.Name, req.Price, req.Currency, quantity)
	if err != nil {
		return Summary{}, err
	}
	if req.VendorID != "" {
		item = item.WithVendor(req.VendorID, req.VendorName, req.VendorProfile)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item = s.displayItemLocked(ctx, item)
	s.cart.Add(item)
	s.persistLocked()
	return s.summaryLocked(ctx), nil
}

// RemoveItem deletes a product from the cart
func (s *Service) RemoveItem(ctx context.Context, productID string) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Remove(productID) {
		return Summary{}, shared.ErrNotFound
	}
	s.persistLocked()
	return s.summaryLocked(ctx), nil
}

// SetQuantity updates a product's quantity; zero removes the product
func (s *Service) SetQuantity(ctx context.Context, productID string, quantity int) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.SetQuantity(productID, quantity) {
		return Summary{}, shared.ErrNotFound
	}
	s.persistLocked()
	return s.summaryLocked(ctx), nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	s.persistLocked()
	return s.summaryLocked(ctx)
}

// Summary returns the current cart snapshot
func (s *Service) Summary(ctx context.Context) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked(ctx)
}

// VendorGroups partitions the cart by vendor for shipping quotes
func (s *Service) VendorGroups() []cart.VendorGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.VendorGroups()
}

// DisplayCurrency returns the cart's current display currency
func (s *Service) DisplayCurrency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// SetDisplayCurrency switches the display currency and schedules an
// asynchronous recomputation of every display price from the original
// prices. The summary returned still shows the old prices; the new ones
// land when the batch commits.
func (s *Service) SetDisplayCurrency(ctx context.Context, code string) {
	s.mu.Lock()
	s.display = code
	token := s.generation.Add(1)
	items := s.cart.Items()
	s.mu.Unlock()

	s.batches.Add(1)
	go s.recompute(context.WithoutCancel(ctx), token, code, items)
}

// Wait blocks until every in-flight recomputation batch has finished.
// Used by tests and by graceful shutdown.
func (s *Service) Wait() {
	s.batches.Wait()
}

// recompute derives fresh display prices for a snapshot of the cart.
// Items whose conversion fails keep their original price and currency.
// The batch commits atomically, and only if no newer batch has been
// scheduled since this one started.
func (s *Service) recompute(ctx context.Context, token uint64, code string, items []cart.LineItem) {
	defer s.batches.Done()

	recomputed := make([]cart.LineItem, len(items))
	for idx, item := range items {
		converted, err := s.currency.Convert(ctx, item.OriginalPrice, item.OriginalCurrency, code)
		if err != nil {
			s.logger.Warn("Price conversion failed, falling back to original",
				zap.String("product_id", item.ProductID),
				zap.String("currency", code),
				zap.Error(err))
			item.DisplayPrice = item.OriginalPrice
			item.DisplayCurrency = item.OriginalCurrency
		} else {
			item.DisplayPrice = converted
			item.DisplayCurrency = code
		}
		recomputed[idx] = item
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation.Load() != token {
		// A newer currency change superseded this batch
		return
	}

	// Carry over quantity changes that happened while the batch ran;
	// prices come from the batch, membership from the live cart.
	byProduct := make(map[string]cart.LineItem, len(recomputed))
	for _, item := range recomputed {
		byProduct[item.ProductID] = item
	}

	current := s.cart.Items()
	merged := make([]cart.LineItem, 0, len(current))
	for _, live := range current {
		if batch, ok := byProduct[live.ProductID]; ok {
			live.DisplayPrice = batch.DisplayPrice
			live.DisplayCurrency = batch.DisplayCurrency
		}
		merged = append(merged, live)
	}

	s.cart.ReplaceItems(merged)
	s.persistLocked()
}

// displayItemLocked computes the display price of a new item in the
// current display currency. Conversion failure keeps the original.
func (s *Service) displayItemLocked(ctx context.Context, item cart.LineItem) cart.LineItem {
	converted, err := s.currency.Convert(ctx, item.OriginalPrice, item.OriginalCurrency, s.display)
	if err != nil {
		s.logger.Warn("Price conversion failed, falling back to original",
			zap.String("product_id", item.ProductID),
			zap.Error(err))
		return item
	}
	item.DisplayPrice = converted
	item.DisplayCurrency = s.display
	return item
}

func (s *Service) summaryLocked(ctx context.Context) Summary {
	total := s.cart.Total()
	return Summary{
		Items:           s.cart.Items(),
		ItemCount:       s.cart.ItemCount(),
		Total:           total,
		FormattedTotal:  s.currency.Format(ctx, total, s.display),
		DisplayCurrency: s.display,
	}
}
