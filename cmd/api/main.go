package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ROHIT092-DEV/cofee-shop/internal/aws"
	"github.com/ROHIT092-DEV/cofee-shop/internal/cache"
	"github.com/ROHIT092-DEV/cofee-shop/internal/config"
	"github.com/ROHIT092-DEV/cofee-shop/internal/handlers"
	"github.com/ROHIT092-DEV/cofee-shop/internal/middleware"
)

func setupRouter(cfg handlers.HandlerConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.PrometheusHandler())

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.RunLocal {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	productCache, err := cache.InitRedis(cfg.RedisAddr, logger)
	if err != nil {
		logger.Fatal("failed to init redis", zap.Error(err))
	}

	r := setupRouter(handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		SQSClient:      clients.SQS,
		ProductsTable:  cfg.ProductsTable,
		OrdersTable:    cfg.OrdersTable,
		UsersTable:     cfg.UsersTable,
		ReviewsTable:   cfg.ReviewsTable,
		QueueURL:       cfg.OrdersQueue,
		JWTSecret:      []byte(cfg.JWTSecret),
		TokenTTL:       cfg.TokenTTL,
		Cache:          productCache,
		Logger:         logger,
	}, logger)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		logger.Info("running local server", zap.String("addr", cfg.HTTPAddr))
		if err := r.Run(cfg.HTTPAddr); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
