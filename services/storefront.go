package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/YvonneBrian/ECommerce-Repawtly/catalog"
	apperrors "github.com/YvonneBrian/ECommerce-Repawtly/common/errors"
	"github.com/YvonneBrian/ECommerce-Repawtly/database"
	"github.com/YvonneBrian/ECommerce-Repawtly/models"
	awspkg "github.com/YvonneBrian/ECommerce-Repawtly/pkg/aws"
)

// Options wires a Storefront. Nil collaborators get in-memory defaults.
type Options struct {
	Store           database.Store
	CartKey         string
	Catalog         *catalog.Catalog
	Authenticator   Authenticator
	Notifier        Notifier
	Scheduler       Scheduler
	Settler         Settler
	Publisher       OrderPublisher
	Metrics         MetricsRecorder
	Logger          *zap.Logger
	DefaultPrice    float64
	ShippingFee     float64
	SettlementDelay time.Duration
}

// State is a read-only snapshot for a UI to render.
type State struct {
	View      models.View           `json:"view"`
	User      *models.User          `json:"user"`
	Cart      []models.ItemRecord   `json:"cart"`
	CartTotal float64               `json:"cartTotal"`
	Tags      []models.SavedTag     `json:"tags"`
	Checkout  models.CheckoutStatus `json:"checkout"`
}

// Storefront is the single owner of view, session, cart, saved tags and
// checkout. Every operation runs under one lock, one at a time.
type Storefront struct {
	mu       sync.Mutex
	router   *Router
	session  *Session
	guard    *AccessGuard
	cart     *CartStore
	tags     *TagRegistry
	checkout *Checkout
	catalog  *catalog.Catalog
	notifier Notifier
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// New builds the storefront and hydrates the cart from the store.
func New(ctx context.Context, opts Options) *Storefront {
	logger := orNop(opts.Logger)
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	auth := opts.Authenticator
	if auth == nil {
		auth = NewMemoryDirectory(0)
	}

	sf := &Storefront{catalog: cat, notifier: notifier, metrics: opts.Metrics, logger: logger}
	sf.router = NewRouter(logger.Named("router"))
	sf.session = NewSession(auth, sf.router, notifier, logger.Named("session"))
	sf.guard = NewAccessGuard(sf.router, sf.session, notifier, logger.Named("guard"))
	sf.cart = NewCartStore(CartStoreConfig{
		Store:        opts.Store,
		Key:          opts.CartKey,
		Catalog:      cat,
		Notifier:     notifier,
		Logger:       logger.Named("cart"),
		DefaultPrice: opts.DefaultPrice,
	})
	sf.tags = NewTagRegistry(logger.Named("tags"))
	sf.checkout = NewCheckout(CheckoutConfig{
		Cart:      sf.cart,
		Router:    sf.router,
		Session:   sf.session,
		Notifier:  notifier,
		Scheduler: opts.Scheduler,
		Settler:   opts.Settler,
		Publisher: opts.Publisher,
		Metrics:   opts.Metrics,
		Logger:    logger.Named("checkout"),
		Locker:    &sf.mu,
		Shipping:  opts.ShippingFee,
		Delay:     opts.SettlementDelay,
	})

	sf.cart.Hydrate(ctx)
	return sf
}

// Close cancels any pending settlement.
func (sf *Storefront) Close() {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.checkout.Stop()
}

func (sf *Storefront) Snapshot() State {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	st := State{
		View:      sf.router.Current(),
		Cart:      make([]models.ItemRecord, 0, sf.cart.Count()),
		CartTotal: sf.cart.Total(),
		Tags:      sf.tags.List(),
		Checkout:  sf.checkout.Status(),
	}
	if u, ok := sf.session.User(); ok {
		st.User = &u
	}
	for _, item := range sf.cart.Items() {
		st.Cart = append(st.Cart, models.ToRecord(item))
	}
	return st
}

func (sf *Storefront) Catalog() []models.CatalogProduct {
	return sf.catalog.Products()
}

// --- views & session ---

func (sf *Storefront) View() models.View {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.router.Current()
}

func (sf *Storefront) Navigate(ctx context.Context, target models.View) models.View {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.router.Navigate(ctx, target)
	return sf.router.Current()
}

func (sf *Storefront) User() (models.User, bool) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.session.User()
}

func (sf *Storefront) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.session.Login(ctx, creds)
}

func (sf *Storefront) Register(ctx context.Context, profile models.Profile) (models.User, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.session.Register(ctx, profile)
}

func (sf *Storefront) Logout(ctx context.Context) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.session.Logout(ctx)
}

func (sf *Storefront) ExpireSession(ctx context.Context) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.session.Expire(ctx)
}

// requireUser redirects to login when nobody is signed in.
func (sf *Storefront) requireUser(ctx context.Context, action string) error {
	if sf.session.Authenticated() {
		return nil
	}
	sf.logger.Info("action requires login", zap.String("action", action))
	sf.notifier.Notify(ctx, "You must be logged in to perform that action.")
	sf.router.Navigate(ctx, models.ViewLogin)
	return apperrors.ErrAuthRequired
}

// --- cart ---

func (sf *Storefront) CartItems() []models.CartItem {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.cart.Items()
}

func (sf *Storefront) CartTotal() float64 {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.cart.Total()
}

// AddToCart adds a template or custom item. Custom designs need a signed-in user.
func (sf *Storefront) AddToCart(ctx context.Context, c models.Candidate) (models.CartItem, error) {
	item, err := sf.addToCart(ctx, c)
	if err != nil {
		return nil, err
	}
	if sf.metrics != nil {
		dims := map[string]string{"Service": "storefront", "Kind": string(item.Kind())}
		if err := sf.metrics.RecordCount(ctx, awspkg.MetricCartItemsAdded, dims); err != nil {
			sf.logger.Debug("failed to record metric", zap.String("metric", awspkg.MetricCartItemsAdded), zap.Error(err))
		}
	}
	return item, nil
}

func (sf *Storefront) addToCart(ctx context.Context, c models.Candidate) (models.CartItem, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	if err := sf.cartFrozen(ctx); err != nil {
		return nil, err
	}
	if !c.IsTemplate() {
		if err := sf.requireUser(ctx, "add custom design"); err != nil {
			return nil, err
		}
	}
	return sf.cart.Add(ctx, c)
}

func (sf *Storefront) RemoveFromCart(ctx context.Context, id string) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if err := sf.cartFrozen(ctx); err != nil {
		return err
	}
	return sf.cart.Remove(ctx, id)
}

func (sf *Storefront) UpdateCartItem(ctx context.Context, patch models.ItemPatch) (models.CartItem, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if err := sf.cartFrozen(ctx); err != nil {
		return nil, err
	}
	return sf.cart.Update(ctx, patch)
}

// cartFrozen rejects cart changes while a payment is settling; the
// settlement clears exactly the items that were priced at submit.
func (sf *Storefront) cartFrozen(ctx context.Context) error {
	if sf.checkout.State() != models.CheckoutProcessing {
		return nil
	}
	sf.notifier.Notify(ctx, "Your cart is locked while payment is processing.")
	return apperrors.WithMessage(apperrors.ErrCheckoutBusy, "Cart is locked while payment is processing")
}

// --- saved tags ---

func (sf *Storefront) Tags() []models.SavedTag {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.tags.List()
}

// SaveTag upserts a design for the signed-in user, minting an id for new ones.
func (sf *Storefront) SaveTag(ctx context.Context, tag models.SavedTag) (models.SavedTag, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	if err := sf.requireUser(ctx, "save design"); err != nil {
		return models.SavedTag{}, err
	}
	if err := validateStruct(tag); err != nil {
		sf.notifier.Notify(ctx, "Please check your tag design.")
		return models.SavedTag{}, err
	}
	if tag.ID == "" {
		tag.ID = fmt.Sprintf("saved-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	}
	if tag.Name == "" {
		tag.Name = "Custom Tag"
		if p, ok := sf.catalog.ByShape(tag.Type); ok {
			tag.Name = p.Name
		}
	}
	sf.tags.Upsert(tag)
	sf.notifier.Notify(ctx, "Design saved to favorites!")
	return tag, nil
}

// DeleteTag removes a saved design; an unknown id is a no-op.
func (sf *Storefront) DeleteTag(id string) bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.tags.Delete(id)
}

// --- checkout ---

func (sf *Storefront) CheckoutStatus() models.CheckoutStatus {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.checkout.Status()
}

func (sf *Storefront) SubmitCheckout(ctx context.Context, payment models.PaymentDetails) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.checkout.Submit(ctx, payment)
}

func (sf *Storefront) ContinueShopping(ctx context.Context) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.checkout.ContinueShopping(ctx)
}
