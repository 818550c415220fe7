package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ROHIT092-DEV/cofee-shop/internal/auth"
	"github.com/ROHIT092-DEV/cofee-shop/internal/validation"
)

// RegisterAuthRoutes registers registration and login.
func RegisterAuthRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	users := auth.NewStore(cfg.DynamoDBClient, cfg.UsersTable)
	logger := cfg.logger()

	r.POST("/auth/register", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.RegisterRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			logger.Error("hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}

		user := &auth.User{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         req.Role, // store defaults empty to customer
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.Create(ctx, user); err != nil {
			respondStoreError(c, logger, err)
			return
		}

		token, err := auth.IssueToken(cfg.JWTSecret, user, cfg.TokenTTL)
		if err != nil {
			logger.Error("issue token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}

		logger.Info("user registered", zap.String("user_id", user.ID))
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	})

	r.POST("/auth/login", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.LoginRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		user, err := users.GetByEmail(ctx, req.Email)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		// Same response for unknown email and wrong password.
		if user == nil || !user.CheckPassword(req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}

		token, err := auth.IssueToken(cfg.JWTSecret, user, cfg.TokenTTL)
		if err != nil {
			logger.Error("issue token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	})
}
