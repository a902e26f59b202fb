// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/paiban/paiban/internal/repository"
	"github.com/paiban/paiban/pkg/errors"
	"github.com/paiban/paiban/pkg/model"
)

// ShiftTypeHandler 班别定义处理器
type ShiftTypeHandler struct {
	repo *repository.ShiftTypeRepository
}

// NewShiftTypeHandler 创建班别处理器
func NewShiftTypeHandler(db DB) *ShiftTypeHandler {
	return &ShiftTypeHandler{repo: repository.NewShiftTypeRepository(db)}
}

// ShiftTypeCreateRequest 新增班别请求
type ShiftTypeCreateRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsWork    *bool   `json:"is_work,omitempty"`
}

// ShiftTypeUpdateRequest 更新班别请求
type ShiftTypeUpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsWork    *bool   `json:"is_work,omitempty"`
}

// List 回传组织下全部班别，依ID排序
func (h *ShiftTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	shiftTypes, err := h.repo.List(r.Context(), orgID)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询班别失败"))
		return
	}
	respondJSON(w, http.StatusOK, shiftTypes)
}

// Create 新增班别，代码在组织内须唯一
func (h *ShiftTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	var req ShiftTypeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		respondError(w, errors.New(errors.CodeInvalidInput, "code/name 不可为空"))
		return
	}

	existing, err := h.repo.GetByCode(r.Context(), orgID, code)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询班别失败"))
		return
	}
	if existing != nil {
		respondError(w, errors.New(errors.CodeAlreadyExists, "code 已存在"))
		return
	}

	isWork := true
	if req.IsWork != nil {
		isWork = *req.IsWork
	}

	st := &model.ShiftType{
		OrgID:     orgID,
		Code:      code,
		Name:      name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsWork:    isWork,
	}

	if err := h.repo.Create(r.Context(), st); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "创建班别失败"))
		return
	}

	respondJSON(w, http.StatusCreated, st)
}

// Update 局部更新班别
func (h *ShiftTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := parseIDParam(r, "shift_type_id")
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	st, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询班别失败"))
		return
	}
	if st == nil {
		respondError(w, errors.New(errors.CodeNotFound, "shift type not found"))
		return
	}

	var req ShiftTypeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.StartTime != nil {
		st.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = req.EndTime
	}
	if req.IsWork != nil {
		st.IsWork = *req.IsWork
	}

	if err := h.repo.Update(r.Context(), st); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "更新班别失败"))
		return
	}

	respondJSON(w, http.StatusOK, st)
}

// Delete 软删除班别
func (h *ShiftTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := parseIDParam(r, "shift_type_id")
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	_ = h.repo.Delete(r.Context(), id)
	respondJSON(w, http.StatusNoContent, nil)
}
