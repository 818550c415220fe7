package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ROHIT092-DEV/cofee-shop/internal/auth"
	"github.com/ROHIT092-DEV/cofee-shop/internal/aws"
	"github.com/ROHIT092-DEV/cofee-shop/internal/middleware"
	"github.com/ROHIT092-DEV/cofee-shop/internal/orders"
	"github.com/ROHIT092-DEV/cofee-shop/internal/validation"
)

// RegisterOrderRoutes registers checkout and the order status surface.
func RegisterOrderRoutes(r *gin.Engine, cfg HandlerConfig, gate *auth.Gate) {
	v := validation.New()
	store := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable, cfg.ProductsTable)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	logger := cfg.logger()

	r.POST("/orders", gate.RequireUser(), func(c *gin.Context) {
		ctx := c.Request.Context()
		user := auth.CurrentUser(c)

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		items := make([]orders.LineItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, orders.LineItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}

		now := time.Now().UTC()
		method := req.PaymentMethod
		if method == "" {
			method = orders.PaymentMethodCounter
		}
		order := &orders.Order{
			ID:            uuid.NewString(),
			UserID:        user.ID,
			Items:         items,
			Total:         req.Total,
			Status:        orders.StatusPending,
			PaymentMethod: method,
			PaymentStatus: orders.PaymentStatusFor(method),
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		products, err := store.Place(ctx, order)
		if err != nil {
			var stockErr *orders.InsufficientStockError
			if errors.As(err, &stockErr) {
				middleware.RecordOrderPlaced("out_of_stock")
			} else {
				middleware.RecordOrderPlaced("rejected")
			}
			respondStoreError(c, logger, err)
			return
		}
		middleware.RecordOrderPlaced("accepted")

		// Notify the worker; checkout already committed, so a queue outage
		// must not fail the request.
		msg := aws.OrderPlacedMessage{
			OrderID:       order.ID,
			UserID:        order.UserID,
			Total:         order.Total,
			CorrelationID: c.GetHeader("X-Request-Id"),
		}
		if err := publisher.PublishOrderPlaced(ctx, msg); err != nil {
			logger.Warn("publish order event", zap.String("order_id", order.ID), zap.Error(err))
		}

		logger.Info("order placed",
			zap.String("order_id", order.ID),
			zap.String("user_id", order.UserID),
			zap.Float64("total", order.Total),
		)
		c.Header("Location", fmt.Sprintf("/orders/%s", order.ID))
		c.JSON(http.StatusCreated, gin.H{"order": order, "products": products})
	})

	r.GET("/orders", gate.RequireUser(), func(c *gin.Context) {
		user := auth.CurrentUser(c)

		// Customers see their own history; admins the whole board.
		var list []orders.Order
		var err error
		if user.IsAdmin() {
			list, err = store.ListAll(c.Request.Context())
		} else {
			list, err = store.ListByUser(c.Request.Context(), user.ID)
		}
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	})

	r.GET("/orders/:id", gate.RequireUser(), func(c *gin.Context) {
		user := auth.CurrentUser(c)
		order, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		if order == nil || (order.UserID != user.ID && !user.IsAdmin()) {
			// Hide existence from non-owners.
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	})

	r.PATCH("/orders/:id", gate.RequireAdmin(), func(c *gin.Context) {
		var req validation.UpdateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		upd, err := buildStatusUpdate(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_update", "msg": err.Error()})
			return
		}

		order, err := store.UpdateStatus(c.Request.Context(), c.Param("id"), upd)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}

		logger.Info("order status updated",
			zap.String("order_id", order.ID),
			zap.String("status", string(order.Status)),
		)
		c.JSON(http.StatusOK, gin.H{"order": order})
	})

	r.DELETE("/orders/:id", gate.RequireAdmin(), func(c *gin.Context) {
		id := c.Param("id")
		if err := store.Delete(c.Request.Context(), id); err != nil {
			respondStoreError(c, logger, err)
			return
		}
		logger.Info("order deleted", zap.String("order_id", id))
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})
}

// buildStatusUpdate resolves the admin PATCH payload into one atomic status
// update. Payment verification drives the order state: a verified payment
// moves the order to preparing and a rejected one cancels it, in the same
// write, so payment and order state never disagree.
func buildStatusUpdate(req validation.UpdateOrderRequest) (orders.StatusUpdate, error) {
	upd := orders.StatusUpdate{
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
	}

	if req.PaymentStatus != nil {
		switch *req.PaymentStatus {
		case orders.PaymentVerified:
			upd.Status = orders.StatusPreparing
		case orders.PaymentRejected:
			upd.Status = orders.StatusCancelled
		default:
			if req.Status == "" {
				return orders.StatusUpdate{}, fmt.Errorf("status required with payment status %q", *req.PaymentStatus)
			}
			upd.Status = orders.Status(req.Status)
		}
		if req.Status != "" && orders.Status(req.Status) != upd.Status {
			return orders.StatusUpdate{}, fmt.Errorf("payment status %q forces order status %q", *req.PaymentStatus, upd.Status)
		}
		return upd, nil
	}

	if req.Status == "" {
		return orders.StatusUpdate{}, fmt.Errorf("nothing to update")
	}
	upd.Status = orders.Status(req.Status)
	return upd, nil
}
