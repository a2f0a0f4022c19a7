package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/YvonneBrian/ECommerce-Repawtly/common/errors"
	"github.com/YvonneBrian/ECommerce-Repawtly/models"
	awspkg "github.com/YvonneBrian/ECommerce-Repawtly/pkg/aws"
)

const (
	// DefaultShippingFee is charged once per non-empty order.
	DefaultShippingFee = 65.00

	// DefaultSettlementDelay is how long the simulated payment takes.
	DefaultSettlementDelay = 1500 * time.Millisecond
)

// Settlement is what a Settler is asked to charge.
type Settlement struct {
	OrderID string
	UserID  string
	Amount  float64
}

// Settler completes payment for an order. A returned error declines it.
type Settler interface {
	Settle(ctx context.Context, s Settlement) error
}

// SimulatedSettler approves every payment.
type SimulatedSettler struct{}

func (SimulatedSettler) Settle(context.Context, Settlement) error { return nil }

// CheckoutConfig wires a Checkout. Zero values pick the defaults.
type CheckoutConfig struct {
	Cart      *CartStore
	Router    *Router
	Session   *Session
	Notifier  Notifier
	Scheduler Scheduler
	Settler   Settler
	Publisher OrderPublisher
	Metrics   MetricsRecorder
	Logger    *zap.Logger
	// Locker serializes the settlement callback with every other mutation.
	Locker   sync.Locker
	Shipping float64
	Delay    time.Duration
}

// Checkout drains the cart through a deferred, simulated settlement.
// Each submission gets a token; a settlement callback whose token is no
// longer current is ignored.
type Checkout struct {
	cart      *CartStore
	router    *Router
	session   *Session
	notifier  Notifier
	scheduler Scheduler
	settler   Settler
	publisher OrderPublisher
	metrics   MetricsRecorder
	logger    *zap.Logger
	lock      sync.Locker
	shipping  float64
	delay     time.Duration

	token   uint64
	state   models.CheckoutState
	orderID string
	timer   Timer
}

func NewCheckout(cfg CheckoutConfig) *Checkout {
	c := &Checkout{
		cart:      cfg.Cart,
		router:    cfg.Router,
		session:   cfg.Session,
		notifier:  cfg.Notifier,
		scheduler: cfg.Scheduler,
		settler:   cfg.Settler,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    orNop(cfg.Logger),
		lock:      cfg.Locker,
		shipping:  cfg.Shipping,
		delay:     cfg.Delay,
		state:     models.CheckoutIdle,
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(context.Context, string) {})
	}
	if c.scheduler == nil {
		c.scheduler = RealScheduler()
	}
	if c.settler == nil {
		c.settler = SimulatedSettler{}
	}
	if c.lock == nil {
		c.lock = &sync.Mutex{}
	}
	if c.shipping <= 0 {
		c.shipping = DefaultShippingFee
	}
	if c.delay <= 0 {
		c.delay = DefaultSettlementDelay
	}
	if c.router != nil {
		c.router.OnChange(c.onNavigate)
	}
	return c
}

// onNavigate ends a confirmed checkout once the shopper leaves the view,
// so the next visit starts a new instance.
func (c *Checkout) onNavigate(context.Context) {
	if c.state == models.CheckoutConfirmed && c.router.Current() != models.ViewCheckout {
		c.reset()
	}
}

// Summary prices the current cart. Shipping applies only to a non-empty cart.
func (c *Checkout) Summary() models.CheckoutSummary {
	items := c.cart.Items()
	summary := models.CheckoutSummary{Lines: make([]models.SummaryLine, 0, len(items))}
	for _, item := range items {
		line := item.Base()
		price := line.PriceOr(c.cart.DefaultPrice())
		summary.Lines = append(summary.Lines, models.SummaryLine{ID: line.ID, Name: item.DisplayName(), Price: price})
	}
	summary.Subtotal = c.cart.Total()
	if len(items) > 0 {
		summary.Shipping = c.shipping
	}
	summary.Total = roundCents(summary.Subtotal + summary.Shipping)
	return summary
}

func (c *Checkout) Status() models.CheckoutStatus {
	return models.CheckoutStatus{
		Token:   c.token,
		State:   c.state,
		Summary: c.Summary(),
		OrderID: c.orderID,
	}
}

func (c *Checkout) State() models.CheckoutState {
	return c.state
}

// Submit starts settlement of the current cart. While a settlement is in
// flight, or after it confirmed, further submissions are rejected without
// touching the cart.
func (c *Checkout) Submit(ctx context.Context, payment models.PaymentDetails) error {
	switch c.state {
	case models.CheckoutProcessing:
		c.logger.Info("checkout already processing", zap.Uint64("checkout_token", c.token))
		return apperrors.ErrCheckoutBusy
	case models.CheckoutConfirmed:
		return apperrors.WithMessage(apperrors.ErrCheckoutBusy, "Order already placed")
	}

	user, ok := c.session.User()
	if !ok {
		c.notifier.Notify(ctx, apperrors.ErrAuthRequired.Message)
		c.router.Navigate(ctx, models.ViewLogin)
		return apperrors.ErrAuthRequired
	}
	if c.cart.Count() == 0 {
		c.notifier.Notify(ctx, apperrors.ErrEmptyCart.Message)
		c.router.Navigate(ctx, models.ViewCart)
		return apperrors.ErrEmptyCart
	}
	if err := validateStruct(payment); err != nil {
		c.notifier.Notify(ctx, "Please check your payment details.")
		return err
	}

	c.token++
	token := c.token
	c.state = models.CheckoutProcessing
	c.orderID = uuid.NewString()
	amount := c.Summary().Total
	c.notifier.Notify(ctx, "Processing payment...")
	c.logger.Info("checkout submitted",
		zap.Uint64("checkout_token", token),
		zap.String("order_id", c.orderID),
		zap.Float64("total", amount))

	settlement := Settlement{OrderID: c.orderID, UserID: user.ID, Amount: amount}
	c.timer = c.scheduler.AfterFunc(c.delay, func() { c.onSettled(token, settlement) })
	return nil
}

func (c *Checkout) onSettled(token uint64, settlement Settlement) {
	ctx := context.Background()

	c.lock.Lock()
	event, ok := c.settle(ctx, token, settlement)
	c.lock.Unlock()

	if ok {
		c.announce(ctx, event)
	}
}

// settle runs with the lock held.
func (c *Checkout) settle(ctx context.Context, token uint64, settlement Settlement) (models.OrderPlacedEvent, bool) {
	if token != c.token || c.state != models.CheckoutProcessing {
		c.logger.Info("ignoring stale settlement", zap.Uint64("checkout_token", token), zap.Uint64("current_token", c.token))
		return models.OrderPlacedEvent{}, false
	}
	c.timer = nil

	if err := c.settler.Settle(ctx, settlement); err != nil {
		c.state = models.CheckoutIdle
		c.orderID = ""
		c.logger.Warn("payment declined", zap.Uint64("checkout_token", token), zap.Error(err))
		c.notifier.Notify(ctx, "Payment declined. Please try again.")
		c.record(ctx, awspkg.MetricPaymentFailed, 0)
		return models.OrderPlacedEvent{}, false
	}

	summary := c.Summary()
	records := make([]models.ItemRecord, 0, len(summary.Lines))
	for _, item := range c.cart.Items() {
		records = append(records, models.ToRecord(item))
	}
	event := models.OrderPlacedEvent{
		Event:     "order.placed",
		OrderID:   settlement.OrderID,
		UserID:    settlement.UserID,
		Items:     records,
		Subtotal:  summary.Subtotal,
		Shipping:  summary.Shipping,
		Total:     summary.Total,
		Timestamp: time.Now().UTC(),
	}

	c.cart.Clear(ctx)
	c.state = models.CheckoutConfirmed
	c.notifier.Notify(ctx, "Payment successful!")
	c.logger.Info("checkout confirmed", zap.Uint64("checkout_token", token), zap.String("order_id", settlement.OrderID))
	return event, true
}

// announce runs without the lock; failures are logged only.
func (c *Checkout) announce(ctx context.Context, event models.OrderPlacedEvent) {
	c.record(ctx, awspkg.MetricPaymentSucceeded, 0)
	c.record(ctx, awspkg.MetricCartCheckouts, 0)
	c.record(ctx, awspkg.MetricCheckoutTotal, event.Total)

	if c.publisher == nil {
		return
	}
	if err := c.publisher.PublishOrderPlaced(ctx, event); err != nil {
		c.logger.Warn("failed to publish order event", zap.String("order_id", event.OrderID), zap.Error(err))
	}
}

func (c *Checkout) record(ctx context.Context, metric string, value float64) {
	if c.metrics == nil {
		return
	}
	dims := map[string]string{"Service": "storefront"}
	var err error
	if value != 0 {
		err = c.metrics.RecordValue(ctx, metric, value, dims)
	} else {
		err = c.metrics.RecordCount(ctx, metric, dims)
	}
	if err != nil {
		c.logger.Debug("failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}

// ContinueShopping starts a fresh checkout instance and shows the products.
func (c *Checkout) ContinueShopping(ctx context.Context) error {
	if c.state == models.CheckoutProcessing {
		return apperrors.ErrCheckoutBusy
	}
	c.reset()
	c.router.Navigate(ctx, models.ViewProducts)
	return nil
}

// Stop cancels a pending settlement; its callback will be ignored even if
// the timer already fired.
func (c *Checkout) Stop() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.reset()
}

func (c *Checkout) reset() {
	c.token++
	c.timer = nil
	c.state = models.CheckoutIdle
	c.orderID = ""
}
