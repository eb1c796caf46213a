/*
Package order - 订单 API 控制器

职责:
1. 接收 HTTP 请求，解析参数
2. 调用应用服务处理业务逻辑
3. 使用 response 包统一处理响应和错误
4. 变更成功后通知观察者

错误处理:

	Repository 返回 order.ErrOrderNotFound
	     ↓
	Service 记录一次 error 日志并原样返回
	     ↓
	response.HandleAppError: FromDomainError → ORDER_NOT_FOUND → 404
*/
package order

import (
	"context"
	"net/http"

	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/application/notify"
	orderapp "storefront/application/order"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type notifier interface {
	Notify(ctx context.Context, event notify.Event) error
}

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
	notifier     notifier
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService, n notifier) *Controller {
	return &Controller{orderService: orderService, notifier: n}
}

// RegisterRoutes 注册订单路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/orders")
	{
		g.GET("", c.ListOrders)
		g.GET("/:id", c.GetOrder)
		g.POST("", c.CreateOrder)
		g.PUT("/:id", c.UpdateOrder)
		g.DELETE("/:id", c.DeleteOrder)
		g.POST("/:id/products", c.AddProducts)
		g.DELETE("/:id/products/:productId", c.RemoveProduct)
	}
}

// ListOrders GET /api/v1/orders
func (c *Controller) ListOrders(ctx *gin.Context) {
	orders, err := c.orderService.GetAllOrders(ctxutil.Context(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orderapp.ToResponses(orders), "orders retrieved successfully")
}

// GetOrder GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	o, err := c.orderService.GetOrderByID(ctxutil.Context(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orderapp.ToResponse(o), "order retrieved successfully")
}

// CreateOrder POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	reqCtx := ctxutil.Context(ctx)
	o, err := c.orderService.CreateOrderFromProductIDs(reqCtx, req.ProductIDs)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.notify(reqCtx, notify.OrderCreated(o))
	response.HandleCreated(ctx, orderapp.ToResponse(o), "order created successfully")
}

// UpdateOrder PUT /api/v1/orders/:id
// 请求体中的 product_ids 整体替换订单商品
func (c *Controller) UpdateOrder(ctx *gin.Context) {
	var req orderapp.UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	reqCtx := ctxutil.Context(ctx)
	o, err := c.orderService.ReplaceOrderProducts(reqCtx, ctx.Param("id"), req.ProductIDs)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.notify(reqCtx, notify.OrderUpdated(o))
	response.HandleSuccess(ctx, orderapp.ToResponse(o), "order updated successfully")
}

// DeleteOrder DELETE /api/v1/orders/:id
func (c *Controller) DeleteOrder(ctx *gin.Context) {
	reqCtx := ctxutil.Context(ctx)
	o, err := c.orderService.DeleteOrder(reqCtx, ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.notify(reqCtx, notify.OrderDeleted(o))
	response.HandleSuccess(ctx, orderapp.ToResponse(o), "order deleted successfully")
}

// AddProducts POST /api/v1/orders/:id/products
func (c *Controller) AddProducts(ctx *gin.Context) {
	var req orderapp.AddProductsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	reqCtx := ctxutil.Context(ctx)
	o, err := c.orderService.AddProductIDsToOrder(reqCtx, ctx.Param("id"), req.ProductIDs)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.notify(reqCtx, notify.ProductsAdded(o))
	response.HandleSuccess(ctx, orderapp.ToResponse(o), "products added successfully")
}

// RemoveProduct DELETE /api/v1/orders/:id/products/:productId
func (c *Controller) RemoveProduct(ctx *gin.Context) {
	reqCtx := ctxutil.Context(ctx)
	productID := ctx.Param("productId")
	o, err := c.orderService.RemoveProductFromOrder(reqCtx, ctx.Param("id"), productID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.notify(reqCtx, notify.ProductRemoved(o, productID))
	response.HandleSuccess(ctx, orderapp.ToResponse(o), "product removed successfully")
}

func (c *Controller) notify(ctx context.Context, event notify.Event) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("Notification delivery failed",
			zap.String("event", event.Name),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err))
	}
}
