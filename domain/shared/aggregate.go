package shared

// AggregateRoot 聚合根接口
// 聚合根是一致性边界的入口：
// 1. 有全局唯一标识
// 2. 维护聚合内部的不变量（如订单总额 = 商品价格之和）
// 3. 记录领域事件，由工作单元在提交时取走
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// PullEvents 获取并清空聚合根记录的领域事件
	PullEvents() []DomainEvent
}

// Entity 实体接口
// 通过标识判断相等性（即使属性相同，ID不同就是不同的实体）
type Entity interface {
	ID() string
}

// SameIdentity 判断两个实体是否为同一身份
func SameIdentity(a, b Entity) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID() == b.ID()
}
