package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/YvonneBrian/ECommerce-Repawtly/models"
	awspkg "github.com/YvonneBrian/ECommerce-Repawtly/pkg/aws"
)

// OrderPublisher announces placed orders to the rest of the system.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error
}

// OrderPublishers publishes to every publisher and joins the failures.
type OrderPublishers []OrderPublisher

func (ps OrderPublishers) PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error {
	var errs []error
	for _, p := range ps {
		if err := p.PublishOrderPlaced(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SNSOrderPublisher sends order events to an SNS topic.
type SNSOrderPublisher struct {
	publisher awspkg.SNSPublisher
	topicArn  string
}

func NewSNSOrderPublisher(publisher awspkg.SNSPublisher, topicArn string) *SNSOrderPublisher {
	return &SNSOrderPublisher{publisher: publisher, topicArn: topicArn}
}

func (p *SNSOrderPublisher) PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, p.topicArn, body)
}

// MetricsRecorder is satisfied by *aws.MetricsClient.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
}
