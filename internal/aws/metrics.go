package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricNamespace groups all business metrics emitted by the worker.
const MetricNamespace = "CoffeeShop/Orders"

// MetricsEmitter publishes business metrics to CloudWatch.
type MetricsEmitter struct {
	client  CloudWatchAPI
	nowFunc func() time.Time
}

// NewMetricsEmitter returns an emitter bound to a CloudWatch client.
func NewMetricsEmitter(client CloudWatchAPI) *MetricsEmitter {
	return &MetricsEmitter{
		client:  client,
		nowFunc: time.Now,
	}
}

// RecordOrderPlaced emits the order count and revenue datapoints for one order.
func (m *MetricsEmitter) RecordOrderPlaced(ctx context.Context, total float64) error {
	now := m.nowFunc()
	input := &cloudwatch.PutMetricDataInput{
		Namespace: awsString(MetricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("OrdersPlaced"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      awsFloat(1),
			},
			{
				MetricName: awsString("OrderRevenue"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitNone,
				Value:      awsFloat(total),
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put order metrics: %w", err)
	}
	return nil
}

// RecordLowStock emits a datapoint for a product that dropped to or below its
// low-stock threshold, dimensioned by product name.
func (m *MetricsEmitter) RecordLowStock(ctx context.Context, productName string, stock int) error {
	now := m.nowFunc()
	input := &cloudwatch.PutMetricDataInput{
		Namespace: awsString(MetricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("LowStock"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      awsFloat(float64(stock)),
				Dimensions: []cwtypes.Dimension{
					{Name: awsString("Product"), Value: &productName},
				},
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put low stock metric: %w", err)
	}
	return nil
}

func awsFloat(f float64) *float64 { return &f }
