package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/YvonneBrian/ECommerce-Repawtly/common/errors"
	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

type account struct {
	user         models.User
	passwordHash []byte
	profile      models.Profile
}

// MemoryDirectory is an in-process Authenticator for the demo shop.
type MemoryDirectory struct {
	mu       sync.RWMutex
	accounts map[string]account
	cost     int
}

// NewMemoryDirectory hashes passwords with the given bcrypt cost; values
// below bcrypt.MinCost use bcrypt.DefaultCost.
func NewMemoryDirectory(cost int) *MemoryDirectory {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &MemoryDirectory{accounts: make(map[string]account), cost: cost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *MemoryDirectory) Authenticate(_ context.Context, creds models.Credentials) (models.User, error) {
	d.mu.RLock()
	acc, ok := d.accounts[normalizeEmail(creds.Email)]
	d.mu.RUnlock()
	if !ok {
		return models.User{}, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(creds.Password)); err != nil {
		return models.User{}, apperrors.ErrInvalidCredentials
	}
	return acc.user, nil
}

func (d *MemoryDirectory) Register(_ context.Context, profile models.Profile) (models.User, error) {
	email := normalizeEmail(profile.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(profile.Password), d.cost)
	if err != nil {
		return models.User{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[email]; exists {
		return models.User{}, apperrors.ErrAccountExists
	}
	user := models.User{ID: uuid.NewString(), DisplayName: profile.FullName, Email: email}
	profile.Password = ""
	d.accounts[email] = account{user: user, passwordHash: hash, profile: profile}
	return user, nil
}

// Profile returns the stored registration profile without the password.
func (d *MemoryDirectory) Profile(email string) (models.Profile, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	acc, ok := d.accounts[normalizeEmail(email)]
	return acc.profile, ok
}
