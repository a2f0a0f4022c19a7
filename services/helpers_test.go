package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

// --- Mocks for Dependencies ---

type MockAuthenticator struct{ mock.Mock }

func (m *MockAuthenticator) Authenticate(ctx context.Context, creds models.Credentials) (models.User, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthenticator) Register(ctx context.Context, profile models.Profile) (models.User, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(models.User), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	args := m.Called(ctx, metricName, dimensions)
	return args.Error(0)
}

func (m *MockMetrics) RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error {
	args := m.Called(ctx, metricName, value, dimensions)
	return args.Error(0)
}

// recorder collects notifications in order.
type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Notify(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func (r *recorder) count(message string) int {
	n := 0
	for _, m := range r.all() {
		if m == message {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

// manualScheduler captures scheduled callbacks; tests fire them explicitly.
type manualScheduler struct {
	tasks []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{delay: d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *manualScheduler) last() *manualTimer {
	if len(s.tasks) == 0 {
		return nil
	}
	return s.tasks[len(s.tasks)-1]
}

// fire runs the callback even when stopped, like a timer that already expired.
func (t *manualTimer) fire() { t.f() }

type declineSettler struct{}

func (declineSettler) Settle(context.Context, Settlement) error {
	return errors.New("card declined")
}

// recordingSettler approves and remembers every settlement.
type recordingSettler struct {
	charged []Settlement
}

func (s *recordingSettler) Settle(_ context.Context, st Settlement) error {
	s.charged = append(s.charged, st)
	return nil
}

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk unavailable")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk unavailable")
}

func price(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func validPayment() models.PaymentDetails {
	return models.PaymentDetails{
		NameOnCard: "Jane Doe",
		CardNumber: "4242424242424242",
		Expiry:     "12/29",
		CVV:        "123",
	}
}
