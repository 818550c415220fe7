package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ROHIT092-DEV/cofee-shop/internal/auth"
	"github.com/ROHIT092-DEV/cofee-shop/internal/reviews"
	"github.com/ROHIT092-DEV/cofee-shop/internal/validation"
)

// RegisterReviewRoutes registers the public review wall and submission.
func RegisterReviewRoutes(r *gin.Engine, cfg HandlerConfig, gate *auth.Gate) {
	v := validation.New()
	store := reviews.NewStore(cfg.DynamoDBClient, cfg.ReviewsTable)
	logger := cfg.logger()

	r.GET("/reviews", func(c *gin.Context) {
		list, err := store.ListApproved(c.Request.Context())
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reviews": list})
	})

	r.POST("/reviews", gate.RequireUser(), func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var req validation.ReviewRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		now := time.Now().UTC()
		review := &reviews.Review{
			UserID:    user.ID,
			ReviewID:  uuid.NewString(),
			UserName:  user.Name,
			Rating:    req.Rating,
			Comment:   req.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.Create(c.Request.Context(), review); err != nil {
			respondStoreError(c, logger, err)
			return
		}

		logger.Info("review submitted",
			zap.String("review_id", review.ReviewID),
			zap.String("user_id", user.ID),
		)
		c.JSON(http.StatusCreated, gin.H{"review": review})
	})
}
