package handlers

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/ROHIT092-DEV/cofee-shop/internal/orders"
	"github.com/ROHIT092-DEV/cofee-shop/internal/reviews"
)

// mockDynamo backs every table the API touches: table -> pk -> item. It
// evaluates the condition and update expressions the stores emit.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) ensureTable(tbl string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[tbl]
}

// pkOf picks the partition key by attribute shape. Order matters: user items
// carry both email and user_id but are keyed by email.
func pkOf(attrs map[string]types.AttributeValue) (string, error) {
	for _, k := range []string{"order_id", "product_id", "email", "user_id"} {
		if v, ok := attrs[k]; ok {
			return v.(*types.AttributeValueMemberS).Value, nil
		}
	}
	return "", errors.New("no primary key attribute")
}

func numAttr(item map[string]types.AttributeValue, attr string) int {
	v, ok := item[attr].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(v.Value)
	return n
}

func valueNum(values map[string]types.AttributeValue, placeholder string) int {
	v, ok := values[placeholder].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(v.Value)
	return n
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.ensureTable(*params.TableName)[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(params.Item)
	if err != nil {
		return nil, err
	}
	tbl := m.ensureTable(*params.TableName)
	if params.ConditionExpression != nil && strings.HasPrefix(*params.ConditionExpression, "attribute_not_exists") {
		if _, exists := tbl[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	tbl[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	tbl := m.ensureTable(*params.TableName)
	item, exists := tbl[pk]
	if !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if params.ConditionExpression != nil && strings.Contains(*params.ConditionExpression, "#s IN") {
		curr, ok := item["status"].(*types.AttributeValueMemberS)
		if !ok {
			return nil, &types.ConditionalCheckFailedException{}
		}
		allowed := false
		for ph, v := range params.ExpressionAttributeValues {
			if strings.HasPrefix(ph, ":from") && v.(*types.AttributeValueMemberS).Value == curr.Value {
				allowed = true
			}
		}
		if !allowed {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	applyUpdate(item, *params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	tbl[pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	tbl := m.ensureTable(*params.TableName)
	if _, exists := tbl[pk]; !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	delete(tbl, pk)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	out := &dyn.ScanOutput{Count: int32(len(tbl))}
	if params.Select == types.SelectCount {
		return out, nil
	}
	for _, item := range tbl {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if params.IndexName == nil {
		return nil, errors.New("query without index")
	}
	tbl := m.ensureTable(*params.TableName)

	switch *params.IndexName {
	case orders.UserIndex:
		want := params.ExpressionAttributeValues[":u"].(*types.AttributeValueMemberS).Value
		var items []map[string]types.AttributeValue
		for _, item := range tbl {
			if u, ok := item["user_id"].(*types.AttributeValueMemberS); ok && u.Value == want {
				items = append(items, item)
			}
		}
		sort.Slice(items, func(i, j int) bool {
			a := items[i]["created_at"].(*types.AttributeValueMemberS).Value
			b := items[j]["created_at"].(*types.AttributeValueMemberS).Value
			return a > b
		})
		return &dyn.QueryOutput{Items: items, Count: int32(len(items))}, nil

	case reviews.ReviewIndex:
		want := params.ExpressionAttributeValues[":r"].(*types.AttributeValueMemberS).Value
		for _, item := range tbl {
			if r, ok := item["review_id"].(*types.AttributeValueMemberS); ok && r.Value == want {
				return &dyn.QueryOutput{Items: []map[string]types.AttributeValue{item}, Count: 1}, nil
			}
		}
		return &dyn.QueryOutput{}, nil
	}
	return nil, errors.New("unknown index")
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, ti := range params.TransactItems {
		code := "None"
		switch {
		case ti.Update != nil:
			tbl := m.ensureTable(*ti.Update.TableName)
			pk, err := pkOf(ti.Update.Key)
			if err != nil {
				return nil, err
			}
			item, exists := tbl[pk]
			if !exists {
				code = "ConditionalCheckFailed"
			} else if ti.Update.ConditionExpression != nil && strings.Contains(*ti.Update.ConditionExpression, "stock >= :q") {
				if numAttr(item, "stock") < valueNum(ti.Update.ExpressionAttributeValues, ":q") {
					code = "ConditionalCheckFailed"
				}
			}
		case ti.Put != nil:
			tbl := m.ensureTable(*ti.Put.TableName)
			pk, err := pkOf(ti.Put.Item)
			if err != nil {
				return nil, err
			}
			if ti.Put.ConditionExpression != nil && strings.HasPrefix(*ti.Put.ConditionExpression, "attribute_not_exists") {
				if _, exists := tbl[pk]; exists {
					code = "ConditionalCheckFailed"
				}
			}
		}
		if code != "None" {
			failed = true
		}
		c := code
		reasons[i] = types.CancellationReason{Code: &c}
	}
	if failed {
		return nil, &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	for _, ti := range params.TransactItems {
		switch {
		case ti.Update != nil:
			tbl := m.ensureTable(*ti.Update.TableName)
			pk, _ := pkOf(ti.Update.Key)
			applyUpdate(tbl[pk], *ti.Update.UpdateExpression, nil, ti.Update.ExpressionAttributeValues)
		case ti.Put != nil:
			tbl := m.ensureTable(*ti.Put.TableName)
			pk, _ := pkOf(ti.Put.Item)
			tbl[pk] = ti.Put.Item
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func applyUpdate(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) {
	expr = strings.TrimPrefix(expr, "SET ")
	for _, clause := range strings.Split(expr, ", ") {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			continue
		}
		attr := parts[0]
		if resolved, ok := names[attr]; ok {
			attr = resolved
		}
		rhs := parts[1]
		switch {
		case rhs == "stock - :q":
			item[attr] = &types.AttributeValueMemberN{Value: strconv.Itoa(numAttr(item, "stock") - valueNum(values, ":q"))}
		case rhs == "total_sold + :q":
			item[attr] = &types.AttributeValueMemberN{Value: strconv.Itoa(numAttr(item, "total_sold") + valueNum(values, ":q"))}
		default:
			if v, ok := values[rhs]; ok {
				item[attr] = v
			}
		}
	}
}

// mockSQS records published order events.
type mockSQS struct {
	mu   sync.Mutex
	sent []*sqs.SendMessageInput
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, params)
	return &sqs.SendMessageOutput{}, nil
}

func (m *mockSQS) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
