package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/YvonneBrian/ECommerce-Repawtly/pkg/aws"
)

// Notifier delivers a user-facing message. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// Notifiers fans a message out to every sink in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, message string) {
	for _, n := range ns {
		n.Notify(ctx, message)
	}
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: orNop(logger)}
}

func (l *LogNotifier) Notify(_ context.Context, message string) {
	l.logger.Info("notification", zap.String("message", message))
}

// Notification is one delivered message.
type Notification struct {
	Seq     uint64    `json:"seq"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Inbox keeps the most recent notifications for a UI to poll.
type Inbox struct {
	mu       sync.Mutex
	limit    int
	seq      uint64
	messages []Notification
}

// NewInbox keeps up to limit messages; older ones are dropped first.
func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = 50
	}
	return &Inbox{limit: limit}
}

func (in *Inbox) Notify(_ context.Context, message string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.seq++
	in.messages = append(in.messages, Notification{Seq: in.seq, Message: message, At: time.Now()})
	if over := len(in.messages) - in.limit; over > 0 {
		in.messages = append([]Notification(nil), in.messages[over:]...)
	}
}

// Since returns the kept notifications with a sequence number above seq.
func (in *Inbox) Since(seq uint64) []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := []Notification{}
	for _, n := range in.messages {
		if n.Seq > seq {
			out = append(out, n)
		}
	}
	return out
}

// Messages returns the text of every kept notification, oldest first.
func (in *Inbox) Messages() []string {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]string, 0, len(in.messages))
	for _, n := range in.messages {
		out = append(out, n.Message)
	}
	return out
}

// SNSNotifier forwards notifications to an SNS topic in the background.
type SNSNotifier struct {
	publisher awspkg.SNSPublisher
	topicArn  string
	timeout   time.Duration
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func NewSNSNotifier(publisher awspkg.SNSPublisher, topicArn string, logger *zap.Logger) *SNSNotifier {
	return &SNSNotifier{publisher: publisher, topicArn: topicArn, timeout: 5 * time.Second, logger: orNop(logger)}
}

type snsNotification struct {
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

func (s *SNSNotifier) Notify(_ context.Context, message string) {
	body, err := json.Marshal(snsNotification{Message: message, SentAt: time.Now().UTC()})
	if err != nil {
		s.logger.Warn("failed to encode notification", zap.Error(err))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, s.topicArn, body); err != nil {
			s.logger.Warn("failed to publish notification", zap.String("topic", s.topicArn), zap.Error(err))
		}
	}()
}

// Wait blocks until every in-flight publish has finished.
func (s *SNSNotifier) Wait() {
	s.wg.Wait()
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
