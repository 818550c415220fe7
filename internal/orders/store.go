package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ROHIT092-DEV/cofee-shop/internal/aws"
	"github.com/ROHIT092-DEV/cofee-shop/internal/catalog"
)

// UserIndex is the GSI used to list a customer's own orders, keyed on user_id
// with created_at as the range key.
const UserIndex = "user_id-index"

// Store encapsulates operations on the orders table. Placement also writes
// the products table, so the store knows both table names.
type Store struct {
	client        aws.DynamoDBAPI
	tableName     string
	productsTable string
	nowFunc       func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, ordersTable, productsTable string) *Store {
	return &Store{
		client:        client,
		tableName:     ordersTable,
		productsTable: productsTable,
		nowFunc:       time.Now,
	}
}

// mergedLine is one product's combined demand across the submitted cart.
// DynamoDB transactions allow a single operation per item, so repeated cart
// entries for the same product collapse into one guarded decrement.
type mergedLine struct {
	productID string
	quantity  int
}

// Place commits a checkout: every line item is validated against a fresh read
// of its product, then all stock decrements and the order insert are applied
// in one TransactWriteItems call. Each decrement is guarded by stock >= qty,
// so a concurrent sale cancels the whole transaction instead of overselling,
// and a failed placement leaves no partial decrements behind.
//
// Order.ID, UserID, Items, Total and PaymentMethod must be set by the caller;
// status and payment status are derived here. On success the products read
// during validation are returned so callers can render resolved line items.
func (s *Store) Place(ctx context.Context, order *Order) ([]catalog.Product, error) {
	if len(order.Items) == 0 {
		return nil, errors.New("order has no items")
	}

	merged := mergeItems(order.Items)

	// Phase one: validate existence and stock for every product.
	products := make([]catalog.Product, 0, len(merged))
	byID := make(map[string]*catalog.Product, len(merged))
	for _, line := range merged {
		p, err := s.getProduct(ctx, line.productID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, &ProductNotFoundError{ProductID: line.productID}
		}
		if line.quantity > p.Stock {
			return nil, &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: line.quantity,
			}
		}
		products = append(products, *p)
		byID[p.ID] = p
	}

	now := s.nowFunc()
	order.Status = StatusPending
	if order.PaymentMethod == "" {
		order.PaymentMethod = PaymentMethodCounter
	}
	order.PaymentStatus = PaymentStatusFor(order.PaymentMethod)
	order.CreatedAt = now
	order.UpdatedAt = now

	orderItem, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	nowStr := now.Format(time.RFC3339Nano)

	// Phase two: one guarded decrement per product plus the order put.
	transactItems := make([]types.TransactWriteItem, 0, len(merged)+1)
	for _, line := range merged {
		p := byID[line.productID]
		transactItems = append(transactItems, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &s.productsTable,
				Key: map[string]types.AttributeValue{
					"product_id": &types.AttributeValueMemberS{Value: line.productID},
				},
				UpdateExpression:    awsString("SET stock = stock - :q, total_sold = total_sold + :q, in_stock = :in, updated_at = :ua"),
				ConditionExpression: awsString("attribute_exists(product_id) AND stock >= :q"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":q":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", line.quantity)},
					":in": &types.AttributeValueMemberBOOL{Value: p.Stock-line.quantity > 0},
					":ua": &types.AttributeValueMemberS{Value: nowStr},
				},
			},
		})
	}
	transactItems = append(transactItems, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           &s.tableName,
			Item:                orderItem,
			ConditionExpression: awsString("attribute_not_exists(order_id)"),
		},
	})

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return nil, s.cancellationError(ctx, merged, tce)
		}
		return nil, fmt.Errorf("transact write: %w", err)
	}

	return products, nil
}

// cancellationError maps a cancelled placement transaction back to the line
// item that lost a concurrent race, re-reading the product for an accurate
// availability figure.
func (s *Store) cancellationError(ctx context.Context, merged []mergedLine, tce *types.TransactionCanceledException) error {
	for i, reason := range tce.CancellationReasons {
		if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" || i >= len(merged) {
			continue
		}
		line := merged[i]
		p, err := s.getProduct(ctx, line.productID)
		if err != nil || p == nil {
			return &ProductNotFoundError{ProductID: line.productID}
		}
		return &InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Available: p.Stock,
			Requested: line.quantity,
		}
	}
	return fmt.Errorf("transaction canceled: %w", tce)
}

func (s *Store) getProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.productsTable,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p catalog.Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// ListByUser returns a customer's orders, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(UserIndex),
		KeyConditionExpression: awsString("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: awsBool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	var orders []Order
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &orders); err != nil {
		return nil, fmt.Errorf("unmarshal orders: %w", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first. Admin-only surface.
func (s *Store) ListAll(ctx context.Context) ([]Order, error) {
	var orders []Order
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		var page []Order
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		orders = append(orders, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// Count returns the number of orders.
func (s *Store) Count(ctx context.Context) (int, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{
		TableName: &s.tableName,
		Select:    types.SelectCount,
	})
	if err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return int(out.Count), nil
}

// UpdateStatus applies an admin transition. The write is conditional on the
// order currently being in a state the target is reachable from, so the
// lifecycle is enforced at the database even under concurrent admins. Payment
// fields carried in upd change in the same UpdateItem as the status - the
// verified/preparing and rejected/cancelled pairs are never two writes.
// Stock is not restored on cancellation.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, upd StatusUpdate) (*Order, error) {
	sources := TransitionSources(upd.Status)
	if len(sources) == 0 {
		return nil, ErrInvalidTransition
	}

	updateExpr := "SET #s = :new, updated_at = :ua"
	values := map[string]types.AttributeValue{
		":new": &types.AttributeValueMemberS{Value: string(upd.Status)},
		":ua":  &types.AttributeValueMemberS{Value: s.nowFunc().Format(time.RFC3339Nano)},
	}
	if upd.PaymentStatus != nil {
		updateExpr += ", payment_status = :ps"
		values[":ps"] = &types.AttributeValueMemberS{Value: *upd.PaymentStatus}
	}
	if upd.PaymentMethod != nil {
		updateExpr += ", payment_method = :pm"
		values[":pm"] = &types.AttributeValueMemberS{Value: *upd.PaymentMethod}
	}

	cond := "attribute_exists(order_id) AND #s IN ("
	for i, src := range sources {
		placeholder := fmt.Sprintf(":from%d", i)
		if i > 0 {
			cond += ", "
		}
		cond += placeholder
		values[placeholder] = &types.AttributeValueMemberS{Value: string(src)}
	}
	cond += ")"

	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: values,
		ConditionExpression:       &cond,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			existing, getErr := s.Get(ctx, orderID)
			if getErr == nil && existing == nil {
				return nil, ErrOrderNotFound
			}
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// Delete removes an order; ErrOrderNotFound if it does not exist. Admin-only.
func (s *Store) Delete(ctx context.Context, orderID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		ConditionExpression: awsString("attribute_exists(order_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// mergeItems combines repeated product entries, preserving first-seen order.
func mergeItems(items []LineItem) []mergedLine {
	index := map[string]int{}
	var out []mergedLine
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			out[i].quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, mergedLine{productID: it.ProductID, quantity: it.Quantity})
	}
	return out
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool      { return &b }
