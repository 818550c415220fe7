package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ROHIT092-DEV/cofee-shop/internal/auth"
	"github.com/ROHIT092-DEV/cofee-shop/internal/catalog"
	"github.com/ROHIT092-DEV/cofee-shop/internal/orders"
	"github.com/ROHIT092-DEV/cofee-shop/internal/reviews"
	"github.com/ROHIT092-DEV/cofee-shop/internal/validation"
)

const profitMargin = 0.30

// RegisterAdminRoutes registers the back-office: user listing, review
// moderation, the public counters and the sales analytics dashboard.
func RegisterAdminRoutes(r *gin.Engine, cfg HandlerConfig, gate *auth.Gate) {
	v := validation.New()
	products := catalog.NewStore(cfg.DynamoDBClient, cfg.ProductsTable)
	orderStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable, cfg.ProductsTable)
	users := auth.NewStore(cfg.DynamoDBClient, cfg.UsersTable)
	reviewStore := reviews.NewStore(cfg.DynamoDBClient, cfg.ReviewsTable)
	logger := cfg.logger()

	admin := r.Group("/admin", gate.RequireAdmin())

	r.GET("/users", gate.RequireAdmin(), func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": list})
	})

	admin.GET("/reviews", func(c *gin.Context) {
		list, err := reviewStore.ListAll(c.Request.Context())
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reviews": list})
	})

	admin.PATCH("/reviews/:id", func(c *gin.Context) {
		var req validation.ApproveReviewRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		review, err := reviewStore.SetApproved(c.Request.Context(), c.Param("id"), *req.IsApproved)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		logger.Info("review moderated",
			zap.String("review_id", review.ReviewID),
			zap.Bool("approved", review.IsApproved),
		)
		c.JSON(http.StatusOK, gin.H{"review": review})
	})

	admin.DELETE("/reviews/:id", func(c *gin.Context) {
		id := c.Param("id")
		if err := reviewStore.Delete(c.Request.Context(), id); err != nil {
			respondStoreError(c, logger, err)
			return
		}
		logger.Info("review deleted", zap.String("review_id", id))
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})

	// Counters feed the public dashboard header; nothing sensitive here.
	r.GET("/stats", func(c *gin.Context) {
		ctx := c.Request.Context()

		productCount, err := products.Count(ctx)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		orderCount, err := orderStore.Count(ctx)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		userCount, err := users.Count(ctx)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		allReviews, err := reviewStore.ListAll(ctx)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": productCount,
			"orders":   orderCount,
			"users":    userCount,
			"reviews":  len(allReviews),
		})
	})

	r.GET("/analytics", gate.RequireAdmin(), func(c *gin.Context) {
		ctx := c.Request.Context()

		allOrders, err := orderStore.ListAll(ctx)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		allProducts, err := products.List(ctx, catalog.ListFilter{InStock: boolPtr(false)})
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, buildAnalytics(allOrders, allProducts, time.Now().UTC()))
	})
}

// DailySale is one bucket of the 7-day sales chart.
type DailySale struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// TopProduct is one row of the revenue leaderboard.
type TopProduct struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// buildAnalytics folds the order history into the dashboard payload.
// Cancelled orders never count; revenue realizes on completion while
// active orders accrue as pending revenue.
func buildAnalytics(allOrders []orders.Order, allProducts []catalog.Product, now time.Time) gin.H {
	names := make(map[string]string, len(allProducts))
	for _, p := range allProducts {
		names[p.ID] = p.Name
	}

	var totalRevenue, pendingRevenue float64
	var completedOrders, activeOrders int
	daily := make(map[string]*DailySale)
	byProduct := make(map[string]*TopProduct)
	weekAgo := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)

	for _, o := range allOrders {
		if o.Status == orders.StatusCancelled {
			continue
		}
		if o.Status == orders.StatusCompleted {
			totalRevenue += o.Total
			completedOrders++
			for _, item := range o.Items {
				row, ok := byProduct[item.ProductID]
				if !ok {
					row = &TopProduct{ProductID: item.ProductID, Name: names[item.ProductID]}
					byProduct[item.ProductID] = row
				}
				row.Quantity += item.Quantity
				row.Revenue += item.Subtotal()
			}
		} else {
			pendingRevenue += o.Total
			activeOrders++
		}

		if !o.CreatedAt.Before(weekAgo) {
			day := o.CreatedAt.UTC().Format("2006-01-02")
			bucket, ok := daily[day]
			if !ok {
				bucket = &DailySale{Date: day}
				daily[day] = bucket
			}
			bucket.Orders++
			bucket.Revenue += o.Total
		}
	}

	// Emit all seven days so the chart has no gaps.
	dailySales := make([]DailySale, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		if bucket, ok := daily[day]; ok {
			dailySales = append(dailySales, *bucket)
		} else {
			dailySales = append(dailySales, DailySale{Date: day})
		}
	}

	top := make([]TopProduct, 0, len(byProduct))
	for _, row := range byProduct {
		top = append(top, *row)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Revenue > top[j].Revenue })
	if len(top) > 5 {
		top = top[:5]
	}

	return gin.H{
		"totalRevenue":    totalRevenue,
		"pendingRevenue":  pendingRevenue,
		"estimatedProfit": totalRevenue * profitMargin,
		"completedOrders": completedOrders,
		"activeOrders":    activeOrders,
		"dailySales":      dailySales,
		"topProducts":     top,
	}
}

func boolPtr(b bool) *bool { return &b }
