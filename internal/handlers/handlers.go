package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/aws/smithy-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ROHIT092-DEV/cofee-shop/internal/auth"
	"github.com/ROHIT092-DEV/cofee-shop/internal/aws"
	"github.com/ROHIT092-DEV/cofee-shop/internal/cache"
	"github.com/ROHIT092-DEV/cofee-shop/internal/catalog"
	"github.com/ROHIT092-DEV/cofee-shop/internal/orders"
	"github.com/ROHIT092-DEV/cofee-shop/internal/reviews"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	ProductsTable  string
	OrdersTable    string
	UsersTable     string
	ReviewsTable   string
	QueueURL       string
	JWTSecret      []byte
	TokenTTL       time.Duration
	Cache          *cache.Cache
	Logger         *zap.Logger
}

func (cfg HandlerConfig) logger() *zap.Logger {
	if cfg.Logger == nil {
		return zap.NewNop()
	}
	return cfg.Logger
}

// RegisterRoutes wires every route group onto the engine.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	gate := auth.NewGate(cfg.JWTSecret, auth.NewStore(cfg.DynamoDBClient, cfg.UsersTable))

	RegisterAuthRoutes(r, cfg)
	RegisterProductRoutes(r, cfg, gate)
	RegisterOrderRoutes(r, cfg, gate)
	RegisterReviewRoutes(r, cfg, gate)
	RegisterAdminRoutes(r, cfg, gate)
}

// respondStoreError translates store errors into HTTP responses. Anything it
// does not recognize becomes a 500 with a generic body; details stay in logs.
func respondStoreError(c *gin.Context, logger *zap.Logger, err error) {
	var stockErr *orders.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient_stock",
			"product":   stockErr.ProductID,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
			"msg":       stockErr.Error(),
		})
		return
	}
	var missingErr *orders.ProductNotFoundError
	if errors.As(err, &missingErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "product_not_found",
			"product": missingErr.ProductID,
		})
		return
	}

	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_status_transition"})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
	case errors.Is(err, reviews.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "review_not_found"})
	case errors.Is(err, reviews.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": "review_already_submitted"})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email_taken"})
	default:
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			logger.Error("aws service error", zap.String("code", apiErr.ErrorCode()), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_error"})
			return
		}
		logger.Error("store operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
