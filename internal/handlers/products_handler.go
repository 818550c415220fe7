package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ROHIT092-DEV/cofee-shop/internal/auth"
	"github.com/ROHIT092-DEV/cofee-shop/internal/catalog"
	"github.com/ROHIT092-DEV/cofee-shop/internal/validation"
)

// RegisterProductRoutes registers the public storefront catalog and the
// admin product management surface.
func RegisterProductRoutes(r *gin.Engine, cfg HandlerConfig, gate *auth.Gate) {
	v := validation.New()
	store := catalog.NewStore(cfg.DynamoDBClient, cfg.ProductsTable)
	logger := cfg.logger()

	r.GET("/products", func(c *gin.Context) {
		filter := catalog.ListFilter{
			Search:   c.Query("search"),
			Category: c.Query("category"),
		}
		if raw := c.Query("inStock"); raw != "" {
			if b, err := strconv.ParseBool(raw); err == nil {
				filter.InStock = &b
			}
		}

		products, err := store.List(c.Request.Context(), filter)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	})

	r.GET("/products/trending", func(c *gin.Context) {
		products, err := store.Trending(c.Request.Context())
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	})

	r.GET("/products/featured", func(c *gin.Context) {
		products, err := store.Featured(c.Request.Context())
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	})

	r.GET("/products/category/:category", func(c *gin.Context) {
		products, err := store.ByCategory(c.Request.Context(), c.Param("category"))
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	})

	r.GET("/products/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		var cached catalog.Product
		if err := cfg.Cache.GetProduct(ctx, id, &cached); err == nil {
			c.JSON(http.StatusOK, gin.H{"product": cached})
			return
		}

		product, err := store.Get(ctx, id)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
			return
		}
		if err := cfg.Cache.SetProduct(ctx, id, product); err != nil {
			logger.Warn("cache product", zap.String("product_id", id), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	})

	r.POST("/products", gate.RequireAdmin(), func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		stock := 100
		if req.Stock != nil {
			stock = *req.Stock
		}
		now := time.Now().UTC()
		product := &catalog.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Image:       req.Image,
			Stock:       stock,
			IsTrending:  req.IsTrending,
			IsFeatured:  req.IsFeatured,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.Create(c.Request.Context(), product); err != nil {
			respondStoreError(c, logger, err)
			return
		}

		logger.Info("product created", zap.String("product_id", product.ID))
		c.JSON(http.StatusCreated, gin.H{"product": product})
	})

	r.PUT("/products/:id", gate.RequireAdmin(), func(c *gin.Context) {
		var req validation.UpdateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		ctx := c.Request.Context()
		id := c.Param("id")
		product, err := store.Update(ctx, id, catalog.ProductUpdate{
			Name:              req.Name,
			Description:       req.Description,
			Price:             req.Price,
			Category:          req.Category,
			Image:             req.Image,
			Stock:             req.Stock,
			LowStockThreshold: req.LowStockThreshold,
			IsTrending:        req.IsTrending,
			IsFeatured:        req.IsFeatured,
		})
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		if err := cfg.Cache.InvalidateProduct(ctx, id); err != nil {
			logger.Warn("invalidate product cache", zap.String("product_id", id), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	})

	r.PATCH("/products/:id", gate.RequireAdmin(), func(c *gin.Context) {
		var req validation.PatchProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		ctx := c.Request.Context()
		id := c.Param("id")
		product, err := store.Update(ctx, id, catalog.ProductUpdate{
			Stock:   req.Stock,
			InStock: req.InStock,
		})
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		if err := cfg.Cache.InvalidateProduct(ctx, id); err != nil {
			logger.Warn("invalidate product cache", zap.String("product_id", id), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	})

	r.DELETE("/products/:id", gate.RequireAdmin(), func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")
		if err := store.Delete(ctx, id); err != nil {
			respondStoreError(c, logger, err)
			return
		}
		if err := cfg.Cache.InvalidateProduct(ctx, id); err != nil {
			logger.Warn("invalidate product cache", zap.String("product_id", id), zap.Error(err))
		}
		logger.Info("product deleted", zap.String("product_id", id))
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})
}
