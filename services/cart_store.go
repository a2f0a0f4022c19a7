package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/YvonneBrian/ECommerce-Repawtly/catalog"
	apperrors "github.com/YvonneBrian/ECommerce-Repawtly/common/errors"
	"github.com/YvonneBrian/ECommerce-Repawtly/database"
	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

// CatalogSource looks up template products by catalog id.
type CatalogSource interface {
	ByID(id string) (models.CatalogProduct, bool)
}

// CartStoreConfig wires a CartStore. Zero values pick the defaults.
type CartStoreConfig struct {
	Store        database.Store
	Key          string
	Catalog      CatalogSource
	Notifier     Notifier
	Logger       *zap.Logger
	DefaultPrice float64
	Now          func() time.Time
	Nonce        func() string
}

// CartStore is the ordered collection of priced line items. Every
// successful mutation is written to the Store before the call returns.
type CartStore struct {
	items        []models.CartItem
	store        database.Store
	key          string
	catalog      CatalogSource
	notifier     Notifier
	logger       *zap.Logger
	defaultPrice float64
	now          func() time.Time
	nonce        func() string
}

func NewCartStore(cfg CartStoreConfig) *CartStore {
	s := &CartStore{
		items:        []models.CartItem{},
		store:        cfg.Store,
		key:          cfg.Key,
		catalog:      cfg.Catalog,
		notifier:     cfg.Notifier,
		logger:       orNop(cfg.Logger),
		defaultPrice: cfg.DefaultPrice,
		now:          cfg.Now,
		nonce:        cfg.Nonce,
	}
	if s.store == nil {
		s.store = database.NewMemoryStore()
	}
	if s.key == "" {
		s.key = "cart"
	}
	if s.catalog == nil {
		s.catalog = catalog.New(nil)
	}
	if s.notifier == nil {
		s.notifier = NotifierFunc(func(context.Context, string) {})
	}
	if s.defaultPrice <= 0 {
		s.defaultPrice = models.DefaultPrice
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.nonce == nil {
		s.nonce = func() string { return uuid.NewString()[:8] }
	}
	return s
}

// Hydrate loads the persisted cart once. An unreadable, absent or
// malformed value leaves the cart empty; the failure is only logged.
func (s *CartStore) Hydrate(ctx context.Context) {
	s.items = []models.CartItem{}

	data, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("cart hydration failed", zap.Error(apperrors.Wrap(apperrors.ErrPersistenceRead, err)))
		return
	}
	if !ok {
		return
	}
	items, err := models.DecodeCart(data)
	if err == nil {
		err = checkTemplatesUnique(items)
	}
	if err != nil {
		s.logger.Warn("stored cart is malformed, starting empty", zap.Error(apperrors.Wrap(apperrors.ErrPersistenceRead, err)))
		return
	}
	s.items = items
	s.logger.Info("cart hydrated", zap.Int("items", len(items)))
}

func checkTemplatesUnique(items []models.CartItem) error {
	seen := make(map[string]bool)
	for _, item := range items {
		t, ok := item.(*models.TemplateItem)
		if !ok {
			continue
		}
		if seen[t.CatalogID] {
			return fmt.Errorf("template %s stored twice", t.CatalogID)
		}
		seen[t.CatalogID] = true
	}
	return nil
}

// Add classifies the candidate and appends it. A template already in the
// cart is rejected with DuplicateItem and the cart is left unchanged.
func (s *CartStore) Add(ctx context.Context, c models.Candidate) (models.CartItem, error) {
	if c.Price != nil && *c.Price < 0 {
		s.notifier.Notify(ctx, "Price must not be negative.")
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "price must not be negative")
	}

	var item models.CartItem
	if c.IsTemplate() {
		if _, dup := s.findTemplate(c.ID); dup {
			s.notifier.Notify(ctx, apperrors.ErrDuplicateItem.Message)
			s.logger.Info("duplicate template rejected", zap.String("catalog_id", c.ID))
			return nil, apperrors.ErrDuplicateItem
		}
		item = s.newTemplate(c)
	} else {
		if c.PetName == "" || c.PhoneNumber == "" {
			s.notifier.Notify(ctx, "Please fill in both Pet Name and Phone Number.")
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "pet name and phone number are required")
		}
		item = s.newCustom(c)
	}

	s.items = append(s.items, item)
	s.persist(ctx)
	s.notifier.Notify(ctx, item.DisplayName()+" added to cart!")
	s.logger.Info("cart item added", zap.String("item_id", item.Base().ID), zap.String("kind", string(item.Kind())))
	return models.Clone(item), nil
}

func (s *CartStore) newTemplate(c models.Candidate) *models.TemplateItem {
	product, known := s.catalog.ByID(c.ID)

	line := models.Line{ID: c.ID, Name: c.Name, Quantity: 1, ImagePreview: c.Preview()}
	switch {
	case c.Price != nil && *c.Price > 0:
		line.Price = *c.Price
	case known && product.Price > 0:
		line.Price = product.Price
	default:
		line.Price = s.defaultPrice
	}
	if known {
		if line.Name == "" {
			line.Name = product.Name
		}
		if line.ImagePreview == "" {
			line.ImagePreview = product.ImageURL
		}
	}
	return &models.TemplateItem{Line: line, CatalogID: c.ID}
}

func (s *CartStore) newCustom(c models.Candidate) *models.CustomItem {
	price := s.defaultPrice
	if c.Price != nil && *c.Price > 0 {
		price = *c.Price
	}
	preview := c.Preview()
	if preview == "" {
		preview = catalog.PreviewFor(c.Type)
	}
	return &models.CustomItem{
		Line: models.Line{
			ID:           s.mintID(),
			Name:         c.Name,
			Price:        price,
			Quantity:     1,
			ImagePreview: preview,
		},
		PetName:     c.PetName,
		PhoneNumber: c.PhoneNumber,
		Color:       c.Color,
		Shape:       c.Type,
	}
}

const mintAttempts = 8

// mintID returns "custom-<unix ms>-<nonce>", retrying on the rare clash
// with an id already in the cart. After mintAttempts clashes the nonce is
// replaced by a full random uuid.
func (s *CartStore) mintID() string {
	ms := s.now().UnixMilli()
	for range mintAttempts {
		id := fmt.Sprintf("custom-%d-%s", ms, s.nonce())
		if _, taken := s.indexOf(id); !taken {
			return id
		}
	}
	s.logger.Warn("custom id nonce keeps clashing, using a random uuid", zap.Int64("ms", ms))
	return fmt.Sprintf("custom-%d-%s", ms, uuid.NewString())
}

// Remove deletes the entry with id. An absent id leaves the cart as it
// is, still notifies, and reports NotFound.
func (s *CartStore) Remove(ctx context.Context, id string) error {
	i, ok := s.indexOf(id)
	if !ok {
		s.notifier.Notify(ctx, "Item not found in cart.")
		return apperrors.WithMessage(apperrors.ErrNotFound, "cart item "+id+" not found")
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.persist(ctx)
	s.notifier.Notify(ctx, "Item removed from cart.")
	s.logger.Info("cart item removed", zap.String("item_id", id))
	return nil
}

// Update merges the patch into the entry with the same id.
func (s *CartStore) Update(ctx context.Context, patch models.ItemPatch) (models.CartItem, error) {
	i, ok := s.indexOf(patch.ID)
	if !ok {
		s.notifier.Notify(ctx, "Cart item not found.")
		return nil, apperrors.WithMessage(apperrors.ErrNotFound, "cart item "+patch.ID+" not found")
	}
	if patch.Price != nil && *patch.Price < 0 {
		s.notifier.Notify(ctx, "Price must not be negative.")
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "price must not be negative")
	}

	updated := models.Clone(s.items[i])
	if err := patch.Apply(updated); err != nil {
		s.notifier.Notify(ctx, "This item cannot be customized.")
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	s.items[i] = updated
	s.persist(ctx)
	s.notifier.Notify(ctx, fmt.Sprintf("Cart item for %s updated.", updated.DisplayName()))
	return models.Clone(updated), nil
}

// Clear empties the cart.
func (s *CartStore) Clear(ctx context.Context) {
	s.items = []models.CartItem{}
	s.persist(ctx)
	s.notifier.Notify(ctx, "Cart cleared. Order successfully placed!")
}

// Total sums the price of every entry, using the default for unpriced ones.
func (s *CartStore) Total() float64 {
	var total float64
	for _, item := range s.items {
		total += item.Base().PriceOr(s.defaultPrice)
	}
	return roundCents(total)
}

// Items returns copies of the entries in cart order.
func (s *CartStore) Items() []models.CartItem {
	out := make([]models.CartItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, models.Clone(item))
	}
	return out
}

func (s *CartStore) Count() int {
	return len(s.items)
}

func (s *CartStore) Get(id string) (models.CartItem, bool) {
	i, ok := s.indexOf(id)
	if !ok {
		return nil, false
	}
	return models.Clone(s.items[i]), true
}

// DefaultPrice is the price applied to unpriced entries.
func (s *CartStore) DefaultPrice() float64 {
	return s.defaultPrice
}

func (s *CartStore) indexOf(id string) (int, bool) {
	for i, item := range s.items {
		if item.Base().ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *CartStore) findTemplate(catalogID string) (int, bool) {
	for i, item := range s.items {
		if t, ok := item.(*models.TemplateItem); ok && t.CatalogID == catalogID {
			return i, true
		}
	}
	return -1, false
}

// persist writes the whole cart. Write failures are logged, not surfaced.
func (s *CartStore) persist(ctx context.Context) {
	data, err := models.EncodeCart(s.items)
	if err != nil {
		s.logger.Error("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to persist cart", zap.String("key", s.key), zap.Error(err))
	}
}

func roundCents(v float64) float64 {
	if v < 0 {
		return -roundCents(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}
