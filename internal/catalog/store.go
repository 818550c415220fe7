package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ROHIT092-DEV/cofee-shop/internal/aws"
)

// ErrNotFound indicates the referenced product does not exist.
var ErrNotFound = errors.New("product not found")

// Store encapsulates operations on the products table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new catalog Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches a product by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Create persists a new product. The caller sets ID; stock defaults applied here.
func (s *Store) Create(ctx context.Context, p *Product) error {
	now := s.nowFunc()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.LowStockThreshold == 0 {
		p.LowStockThreshold = DefaultLowStockThreshold
	}
	p.InStock = p.Stock > 0

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(product_id)"),
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of upd and returns the updated product.
// A stock change recomputes in_stock unless the caller pins it explicitly.
func (s *Store) Update(ctx context.Context, productID string, upd ProductUpdate) (*Product, error) {
	sets := []string{"updated_at = :ua"}
	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":ua": &types.AttributeValueMemberS{Value: s.nowFunc().Format(time.RFC3339Nano)},
	}

	set := func(attr, placeholder string, av types.AttributeValue) {
		alias := "#" + placeholder
		names[alias] = attr
		sets = append(sets, fmt.Sprintf("%s = :%s", alias, placeholder))
		values[":"+placeholder] = av
	}

	if upd.Name != nil {
		set("name", "n", &types.AttributeValueMemberS{Value: *upd.Name})
	}
	if upd.Description != nil {
		set("description", "d", &types.AttributeValueMemberS{Value: *upd.Description})
	}
	if upd.Price != nil {
		set("price", "p", numberAttr(*upd.Price))
	}
	if upd.Category != nil {
		set("category", "c", &types.AttributeValueMemberS{Value: *upd.Category})
	}
	if upd.Image != nil {
		set("image", "img", &types.AttributeValueMemberS{Value: *upd.Image})
	}
	if upd.Stock != nil {
		set("stock", "s", intAttr(*upd.Stock))
		if upd.InStock == nil {
			inStock := *upd.Stock > 0
			upd.InStock = &inStock
		}
	}
	if upd.LowStockThreshold != nil {
		set("low_stock_threshold", "lst", intAttr(*upd.LowStockThreshold))
	}
	if upd.InStock != nil {
		set("in_stock", "is", &types.AttributeValueMemberBOOL{Value: *upd.InStock})
	}
	if upd.IsTrending != nil {
		set("is_trending", "tr", &types.AttributeValueMemberBOOL{Value: *upd.IsTrending})
	}
	if upd.IsFeatured != nil {
		set("is_featured", "ft", &types.AttributeValueMemberBOOL{Value: *upd.IsFeatured})
	}

	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		UpdateExpression:          awsString("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(product_id)"),
		ReturnValues:              types.ReturnValueAllNew,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	var p Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Delete removes a product; ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, productID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		ConditionExpression: awsString("attribute_exists(product_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// List returns products matching the filter, newest first. The menu is small,
// so listing scans the table and filters in process rather than maintaining
// query indexes per storefront view.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Product, error) {
	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(f.Search)
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		switch {
		case f.InStock == nil:
			if !p.InStock {
				continue
			}
		case *f.InStock:
			if p.Stock <= 0 {
				continue
			}
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Trending returns up to 6 sellable products flagged trending or with 5+ sales,
// best sellers first.
func (s *Store) Trending(ctx context.Context) ([]Product, error) {
	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, 6)
	for _, p := range all {
		if (p.IsTrending || p.TotalSold >= 5) && p.Available() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSold > out[j].TotalSold })
	return limit(out, 6), nil
}

// Featured returns up to 4 sellable featured products, newest first.
func (s *Store) Featured(ctx context.Context) ([]Product, error) {
	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, 4)
	for _, p := range all {
		if p.IsFeatured && p.Available() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return limit(out, 4), nil
}

// ByCategory returns sellable products in a category, best sellers first.
func (s *Store) ByCategory(ctx context.Context, category string) ([]Product, error) {
	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if p.Category == category && p.Available() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSold > out[j].TotalSold })
	return out, nil
}

// Count returns the number of products.
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

func (s *Store) scanAll(ctx context.Context) ([]Product, error) {
	var products []Product
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan products: %w", err)
		}
		var page []Product
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		products = append(products, page...)
		if out.LastEvaluatedKey == nil {
			return products, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func limit(ps []Product, n int) []Product {
	if len(ps) > n {
		return ps[:n]
	}
	return ps
}

func numberAttr(f float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", f)}
}

func intAttr(n int) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", n)}
}

func awsString(s string) *string { return &s }
