// Package builtin 提供内置约束实现
package builtin

import (
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// BaseConstraint 约束基类
type BaseConstraint struct {
	name     string
	category constraint.Category
}

// NewBaseConstraint 创建基础约束
func NewBaseConstraint(name string, cat constraint.Category) *BaseConstraint {
	return &BaseConstraint{name: name, category: cat}
}

// Name 返回约束名称
func (c *BaseConstraint) Name() string { return c.name }

// Category 返回约束类别
func (c *BaseConstraint) Category() constraint.Category { return c.category }
