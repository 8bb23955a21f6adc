// Package handler 提供HTTP请求处理器
package handler

import (
	"net/http"

	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
	"github.com/lunban/lunban/pkg/scheduler/constraint/builtin"
)

// ConstraintInfo 约束目录条目
type ConstraintInfo struct {
	Name     string `json:"name"`
	Category string `json:"category"` // hard/soft
}

// CatalogResponse 约束目录响应
type CatalogResponse struct {
	Constraints []ConstraintInfo   `json:"constraints"`
	Weights     constraint.Weights `json:"weights"`
}

// ConstraintCatalog 返回引擎注册的全部约束及默认权重
func ConstraintCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	manager := builtin.NewDefaultManager()
	infos := make([]ConstraintInfo, 0, manager.Count())
	for _, c := range manager.GetAll() {
		infos = append(infos, ConstraintInfo{
			Name:     c.Name(),
			Category: string(c.Category()),
		})
	}

	respondJSON(w, http.StatusOK, CatalogResponse{
		Constraints: infos,
		Weights:     constraint.DefaultConfig().Weights,
	})
}
