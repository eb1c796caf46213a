/*
Package order - 订单领域错误定义

设计原则:
1. 使用哨兵错误(sentinel errors)支持 errors.Is() 类型安全判断
2. 错误构造函数在创建时捕获堆栈，便于定位错误发生点
3. 不包含 HTTP 状态码等非领域概念
*/
package order

import (
	"errors"

	"storefront/domain/shared"
)

var (
	// ErrOrderNotFound 订单未找到
	// 可用于: errors.Is(err, ErrOrderNotFound)
	ErrOrderNotFound = errors.New("order not found")

	// ErrNilProduct 向订单添加了空商品（调用方契约错误）
	ErrNilProduct = errors.New("product must not be nil")

	// ErrProductNotInOrder 订单中不存在该商品
	ErrProductNotInOrder = errors.New("product is not part of the order")
)

// NewOrderNotFoundError 创建订单未找到错误（带堆栈）
// 返回的错误支持:
//   - errors.Is(err, ErrOrderNotFound)
//   - err.(shared.Stacker).Stack() 获取堆栈
func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewNilProductError 空商品错误，同时匹配 shared.ErrInvalidInput
func NewNilProductError() error {
	return &orderDomainError{
		sentinel: ErrNilProduct,
		field:    "products",
		message:  "product must not be nil",
		invalid:  true,
		stack:    shared.CaptureStack(3),
	}
}

// NewProductNotInOrderError 订单中不存在该商品
func NewProductNotInOrderError(orderID, productID string) error {
	return &orderDomainError{
		sentinel: ErrProductNotInOrder,
		field:    "product_id",
		message:  "product " + productID + " is not part of order " + orderID,
		invalid:  true,
		stack:    shared.CaptureStack(3),
	}
}

// orderDomainError 订单领域错误（带堆栈）
type orderDomainError struct {
	sentinel error     // 哨兵错误，用于 errors.Is()
	field    string    // 字段名（可选）
	message  string    // 错误消息
	invalid  bool      // 是否属于输入校验类错误
	stack    []uintptr // 调用栈
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() error {
	return e.sentinel
}

func (e *orderDomainError) Is(target error) bool {
	return e.invalid && target == shared.ErrInvalidInput
}

// Stack 实现 shared.Stacker 接口
func (e *orderDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}

	return shared.FormatStack(e.stack)
}
