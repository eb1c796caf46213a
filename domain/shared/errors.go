// Package shared 各聚合共用的领域类型：哨兵错误、金额/数量值对象、事件与工作单元接口。
//
// 错误分两层：哨兵错误给 errors.Is 判断类别；
// 具体错误（DomainError 以及 order/product 包里的错误）创建时记录调用栈，打印日志时才格式化。
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// maxStackFrames 格式化时最多保留的帧数
const maxStackFrames = 10

// DomainError 不属于某个聚合的通用领域错误
type DomainError struct {
	Err     error  // 哨兵
	Entity  string // "order" / "product"
	Message string
	stack   []uintptr
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// Stack 实现 Stacker
func (e *DomainError) Stack() []string { return FormatStack(e.stack) }

// Stacker 能给出创建点调用栈的错误；api 层记录日志时使用
type Stacker interface {
	Stack() []string
}

// CaptureStack 记录调用栈。
// skip=3 跳过 runtime.Callers、CaptureStack 和错误构造函数本身。
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 转成 "file:line func"，去掉 runtime 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(stack)
	var out []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			out = append(out, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(out) >= maxStackFrames {
			return out
		}
	}
}

// NewNotFoundError entity 不存在
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError 唯一性冲突，例如重复的商品 ID
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}
