/*
Package product - 商品领域错误定义

- 哨兵错误支持 errors.Is()
- 构造函数在创建时捕获堆栈
*/
package product

import (
	"errors"

	"storefront/domain/shared"
)

var (
	// ErrProductNotFound 商品未找到
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct 商品字段校验失败，同时匹配 shared.ErrInvalidInput
	ErrInvalidProduct = errors.New("invalid product")
)

// NewProductNotFoundError 创建商品未找到错误（带堆栈）
func NewProductNotFoundError(productID string) error {
	return &productDomainError{
		sentinel: ErrProductNotFound,
		message:  "product not found: " + productID,
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidProductError 创建商品校验错误
func NewInvalidProductError(field, reason string) error {
	return &productDomainError{
		sentinel: ErrInvalidProduct,
		field:    field,
		message:  reason,
		stack:    shared.CaptureStack(3),
	}
}

// productDomainError 商品领域错误（带堆栈）
type productDomainError struct {
	sentinel error
	field    string
	message  string
	stack    []uintptr
}

func (e *productDomainError) Error() string {
	return e.message
}

func (e *productDomainError) Unwrap() error {
	return e.sentinel
}

// Is 校验错误同时视为 shared.ErrInvalidInput
func (e *productDomainError) Is(target error) bool {
	return e.sentinel == ErrInvalidProduct && target == shared.ErrInvalidInput
}

// Field 校验失败的字段
func (e *productDomainError) Field() string {
	return e.field
}

// Stack 实现 shared.Stacker 接口
func (e *productDomainError) Stack() []string {
	return shared.FormatStack(e.stack)
}
