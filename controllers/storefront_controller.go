package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/YvonneBrian/ECommerce-Repawtly/common/errors"
	"github.com/YvonneBrian/ECommerce-Repawtly/common/logger"
	"github.com/YvonneBrian/ECommerce-Repawtly/models"
	"github.com/YvonneBrian/ECommerce-Repawtly/services"
)

// Storefront is the application state the controller drives.
type Storefront interface {
	Snapshot() services.State
	Catalog() []models.CatalogProduct
	Navigate(ctx context.Context, target models.View) models.View
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Register(ctx context.Context, profile models.Profile) (models.User, error)
	Logout(ctx context.Context)
	ExpireSession(ctx context.Context)
	CartItems() []models.CartItem
	CartTotal() float64
	AddToCart(ctx context.Context, c models.Candidate) (models.CartItem, error)
	RemoveFromCart(ctx context.Context, id string) error
	UpdateCartItem(ctx context.Context, patch models.ItemPatch) (models.CartItem, error)
	Tags() []models.SavedTag
	SaveTag(ctx context.Context, tag models.SavedTag) (models.SavedTag, error)
	DeleteTag(id string) bool
	CheckoutStatus() models.CheckoutStatus
	SubmitCheckout(ctx context.Context, payment models.PaymentDetails) error
	ContinueShopping(ctx context.Context) error
	View() models.View
}

// StorefrontController exposes the storefront over HTTP. Handlers report
// failures with c.Error; errors.ErrorMiddleware renders them.
type StorefrontController struct {
	store Storefront
	inbox *services.Inbox
}

// NewStorefrontController creates a new StorefrontController.
func NewStorefrontController(store Storefront, inbox *services.Inbox) *StorefrontController {
	return &StorefrontController{store: store, inbox: inbox}
}

type navigateRequest struct {
	View string `json:"view" binding:"required"`
}

type cartResponse struct {
	Items []models.ItemRecord `json:"items"`
	Total float64             `json:"total"`
}

func bindError(c *gin.Context, err error) {
	logger.Debug(c, "invalid request body", zap.Error(err))
	_ = c.Error(apperrors.Wrap(apperrors.ErrInvalidInput, err))
}

// GetState handles GET /state
func (sc *StorefrontController) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, sc.store.Snapshot())
}

// GetCatalog handles GET /catalog
func (sc *StorefrontController) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": sc.store.Catalog()})
}

// Navigate handles POST /navigate. The returned view may differ from the
// requested one when a guard redirected.
func (sc *StorefrontController) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := models.ParseView(req.View)
	if err != nil {
		_ = c.Error(apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	current := sc.store.Navigate(c.Request.Context(), view)
	c.JSON(http.StatusOK, gin.H{"requested": view, "view": current})
}

// Login handles POST /session/login
func (sc *StorefrontController) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		bindError(c, err)
		return
	}

	user, err := sc.store.Login(c.Request.Context(), creds)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "view": sc.store.View()})
}

// Register handles POST /session/register
func (sc *StorefrontController) Register(c *gin.Context) {
	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		bindError(c, err)
		return
	}

	user, err := sc.store.Register(c.Request.Context(), profile)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "view": sc.store.View()})
}

// Logout handles POST /session/logout
func (sc *StorefrontController) Logout(c *gin.Context) {
	sc.store.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"view": sc.store.View()})
}

// Expire handles POST /session/expire
func (sc *StorefrontController) Expire(c *gin.Context) {
	sc.store.ExpireSession(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"view": sc.store.View()})
}

// GetCart handles GET /cart
func (sc *StorefrontController) GetCart(c *gin.Context) {
	items := sc.store.CartItems()
	resp := cartResponse{Items: make([]models.ItemRecord, 0, len(items)), Total: sc.store.CartTotal()}
	for _, item := range items {
		resp.Items = append(resp.Items, models.ToRecord(item))
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem handles POST /cart
func (sc *StorefrontController) AddItem(c *gin.Context) {
	var candidate models.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		bindError(c, err)
		return
	}

	item, err := sc.store.AddToCart(c.Request.Context(), candidate)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, models.ToRecord(item))
}

// UpdateItem handles PUT /cart/:id
func (sc *StorefrontController) UpdateItem(c *gin.Context) {
	var patch models.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	patch.ID = c.Param("id")

	item, err := sc.store.UpdateCartItem(c.Request.Context(), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.ToRecord(item))
}

// RemoveItem handles DELETE /cart/:id
func (sc *StorefrontController) RemoveItem(c *gin.Context) {
	if err := sc.store.RemoveFromCart(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTags handles GET /tags
func (sc *StorefrontController) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": sc.store.Tags()})
}

// SaveTag handles PUT /tags
func (sc *StorefrontController) SaveTag(c *gin.Context) {
	var tag models.SavedTag
	if err := c.ShouldBindJSON(&tag); err != nil {
		bindError(c, err)
		return
	}

	saved, err := sc.store.SaveTag(c.Request.Context(), tag)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteTag handles DELETE /tags/:id. Unknown ids are not an error.
func (sc *StorefrontController) DeleteTag(c *gin.Context) {
	removed := sc.store.DeleteTag(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}

// GetCheckout handles GET /checkout
func (sc *StorefrontController) GetCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, sc.store.CheckoutStatus())
}

// SubmitCheckout handles POST /checkout. Settlement completes in the
// background, so a successful submission answers 202.
func (sc *StorefrontController) SubmitCheckout(c *gin.Context) {
	var payment models.PaymentDetails
	if err := c.ShouldBindJSON(&payment); err != nil {
		bindError(c, err)
		return
	}

	if err := sc.store.SubmitCheckout(c.Request.Context(), payment); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, sc.store.CheckoutStatus())
}

// ContinueShopping handles POST /checkout/continue
func (sc *StorefrontController) ContinueShopping(c *gin.Context) {
	if err := sc.store.ContinueShopping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": sc.store.View(), "checkout": sc.store.CheckoutStatus()})
}

// Notifications handles GET /notifications?since=<seq>
func (sc *StorefrontController) Notifications(c *gin.Context) {
	since, err := strconv.ParseUint(c.DefaultQuery("since", "0"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.WithMessage(apperrors.ErrValidation, "since must be a sequence number"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": sc.inbox.Since(since)})
}
