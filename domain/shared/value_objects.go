package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money 值对象 - 表示金额
// 使用十进制精确运算，避免浮点误差（9.99 + 5.00 必须等于 14.99）
type Money struct {
	amount decimal.Decimal
}

// NewMoney 创建新的Money值对象
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// Zero 零金额
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// ParseMoney 从字符串解析金额，如 "9.99"
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q", ErrInvalidInput, s)
	}
	return Money{amount: d}, nil
}

// MustParseMoney 解析失败时 panic，仅用于常量和测试
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal 获取底层十进制数值
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add 金额相加，返回新的Money值对象
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sum 累加任意数量的金额
func Sum(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.amount)
	}
	return Money{amount: total}
}

// IsNegative 是否为负数
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero 是否为零
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsWholeCents 是否不超过两位小数（"1.500" 也算）
func (m Money) IsWholeCents() bool {
	return m.amount.Equal(m.amount.Round(2))
}

// GreaterThan 数值比较
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Equals 比较两个Money值对象是否相等（数值比较，9.9 == 9.90）
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String 固定两位小数
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
