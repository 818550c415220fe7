package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/ROHIT092-DEV/cofee-shop/internal/aws"
	"github.com/ROHIT092-DEV/cofee-shop/internal/catalog"
	"github.com/ROHIT092-DEV/cofee-shop/internal/config"
	"github.com/ROHIT092-DEV/cofee-shop/internal/orders"
)

// Processor consumes order-placed events: it publishes business metrics to
// CloudWatch and raises low-stock alerts for the products the order drained.
type Processor struct {
	orderStore *orders.Store
	products   *catalog.Store
	metrics    *aws.MetricsEmitter
	logger     *zap.Logger
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, cfg config.Config, logger *zap.Logger) *Processor {
	return &Processor{
		orderStore: orders.NewStore(clients.DynamoDB, cfg.OrdersTable, cfg.ProductsTable),
		products:   catalog.NewStore(clients.DynamoDB, cfg.ProductsTable),
		metrics:    aws.NewMetricsEmitter(clients.CloudWatch),
		logger:     logger,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.Error("worker error", zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg aws.OrderPlacedMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	p.logger.Info("received order event",
		zap.String("order_id", msg.OrderID),
		zap.String("correlation_id", msg.CorrelationID),
	)

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Should never happen — DLQ if it does
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	if err := p.metrics.RecordOrderPlaced(ctx, order.Total); err != nil {
		return fmt.Errorf("failed to record order metrics: %w", err)
	}

	// Checkout already decremented stock; check where the order left each
	// product and alert when it dropped to its threshold.
	for _, item := range order.Items {
		product, err := p.products.Get(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to fetch product %s: %w", item.ProductID, err)
		}
		if product == nil {
			// Deleted since checkout; nothing to alert on.
			continue
		}
		if product.Stock <= product.LowStockThreshold {
			p.logger.Warn("product low on stock",
				zap.String("product_id", product.ID),
				zap.String("name", product.Name),
				zap.Int("stock", product.Stock),
				zap.Int("threshold", product.LowStockThreshold),
			)
			if err := p.metrics.RecordLowStock(ctx, product.Name, product.Stock); err != nil {
				return fmt.Errorf("failed to record low stock metric: %w", err)
			}
		}
	}

	p.logger.Info("processed order event", zap.String("order_id", msg.OrderID))
	return nil
}
