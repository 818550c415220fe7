package reviews

import "time"

// MaxCommentLength caps review comments.
const MaxCommentLength = 500

// Review is the item stored in the reviews DynamoDB table. The table is keyed
// by user_id, so the one-review-per-user rule is the primary key itself;
// review_id exists for the admin surface and is served by a GSI.
type Review struct {
	UserID     string    `json:"user" dynamodbav:"user_id"` // PK
	ReviewID   string    `json:"id" dynamodbav:"review_id"`
	UserName   string    `json:"userName" dynamodbav:"user_name"`
	Rating     int       `json:"rating" dynamodbav:"rating"` // 1..5
	Comment    string    `json:"comment" dynamodbav:"comment"`
	IsApproved bool      `json:"isApproved" dynamodbav:"is_approved"`
	CreatedAt  time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}
