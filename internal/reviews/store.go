package reviews

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
)

// ReviewIndex is the GSI keyed on review_id, used by the admin routes.
const ReviewIndex = "review_id-index"

// ErrDuplicateReview indicates the user has already submitted a review.
var ErrDuplicateReview = errors.New("review already submitted")

// ErrNotFound indicates the referenced review does not exist.
var ErrNotFound = errors.New("review not found")

// publicLimit bounds the storefront review listing.
const publicLimit = 10

// Store encapsulates operations on the reviews table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new reviews Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create inserts a review; new reviews always start unapproved. The
// conditional put on user_id enforces one review per user atomically.
func (s *Store) Create(ctx context.Context, r *Review) error {
	now := s.nowFunc()
	r.IsApproved = false
	r.CreatedAt = now
	r.UpdatedAt = now

	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(user_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// ListApproved returns the newest approved reviews for the storefront,
// capped at 10. Unapproved reviews never appear here.
func (s *Store) ListApproved(ctx context.Context) ([]Review, error) {
	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Review, 0, publicLimit)
	for _, r := range all {
		if r.IsApproved {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > publicLimit {
		out = out[:publicLimit]
	}
	return out, nil
}

// ListAll returns every review, newest first. Admin-only surface.
func (s *Store) ListAll(ctx context.Context) ([]Review, error) {
	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

// SetApproved flips a review's publication flag by review id.
func (s *Store) SetApproved(ctx context.Context, reviewID string, approved bool) (*Review, error) {
	r, err := s.getByReviewID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: r.UserID},
		},
		UpdateExpression: awsString("SET is_approved = :a, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a":  &types.AttributeValueMemberBOOL{Value: approved},
			":ua": &types.AttributeValueMemberS{Value: s.nowFunc().Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	var updated Review
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("unmarshal review: %w", err)
	}
	return &updated, nil
}

// Delete removes a review by review id. Admin-only.
func (s *Store) Delete(ctx context.Context, reviewID string) error {
	r, err := s.getByReviewID(ctx, reviewID)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: r.UserID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *Store) getByReviewID(ctx context.Context, reviewID string) (*Review, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(ReviewIndex),
		KeyConditionExpression: awsString("review_id = :r"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r": &types.AttributeValueMemberS{Value: reviewID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query review: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrNotFound
	}
	var r Review
	if err := attributevalue.UnmarshalMap(out.Items[0], &r); err != nil {
		return nil, fmt.Errorf("unmarshal review: %w", err)
	}
	return &r, nil
}

func (s *Store) scanAll(ctx context.Context) ([]Review, error) {
	var reviews []Review
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan reviews: %w", err)
		}
		var page []Review
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal reviews: %w", err)
		}
		reviews = append(reviews, page...)
		if out.LastEvaluatedKey == nil {
			return reviews, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func awsString(s string) *string { return &s }
