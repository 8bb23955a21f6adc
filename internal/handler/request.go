// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/lunban/lunban/internal/repository"
	"github.com/lunban/lunban/internal/trigger"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
)

// SolveRequestHandler 求解请求处理器
type SolveRequestHandler struct {
	requests *repository.SolveRequestRepository
	trigger  *trigger.Service
}

// NewSolveRequestHandler 创建求解请求处理器
func NewSolveRequestHandler(requests *repository.SolveRequestRepository, trigger *trigger.Service) *SolveRequestHandler {
	return &SolveRequestHandler{requests: requests, trigger: trigger}
}

// SubmitInput 提交求解请求的输入
type SubmitInput struct {
	Region    string `json:"region"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	CreatedBy string `json:"created_by,omitempty"`
}

// Requests 处理求解请求集合端点（POST 提交，GET 列表）
func (h *SolveRequestHandler) Requests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET和POST方法"))
	}
}

// submit 校验并入队一个求解请求
func (h *SolveRequestHandler) submit(w http.ResponseWriter, r *http.Request) {
	var input SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	req := &model.SolveRequest{
		Region:    input.Region,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		CreatedBy: input.CreatedBy,
	}

	if err := h.trigger.ValidateRequest(req); err != nil {
		respondError(w, errors.AsAppError(err))
		return
	}

	if err := h.requests.Create(r.Context(), req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "创建求解请求失败"))
		return
	}

	respondJSON(w, http.StatusCreated, req)
}

// list 查询求解请求列表
func (h *SolveRequestHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := repository.DefaultListFilter()
	if region := r.URL.Query().Get("region"); region != "" {
		filter = filter.WithRegion(region)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter = filter.WithStatus(status)
	}

	requests, total, err := h.requests.List(r.Context(), filter)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询求解请求失败"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":    total,
		"requests": requests,
	})
}

// SolveNow 对指定请求立即求解（与周期触发共用互斥）
func (h *SolveRequestHandler) SolveNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	idParam := r.URL.Query().Get("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的请求ID格式"))
		return
	}

	req, err := h.requests.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeNotFound, "求解请求不存在"))
		return
	}
	if req.Status != model.RequestPending {
		respondError(w, errors.New(errors.CodeValidationFail, "仅待处理请求可立即求解"))
		return
	}

	if err := h.trigger.SolveNow(r.Context(), req); err != nil {
		respondError(w, errors.AsAppError(err))
		return
	}

	updated, err := h.requests.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询求解结果失败"))
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
