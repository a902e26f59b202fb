// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paiban/paiban/internal/repository"
	"github.com/paiban/paiban/pkg/errors"
	"github.com/paiban/paiban/pkg/model"
)

// EmployeeHandler 员工档案处理器
type EmployeeHandler struct {
	repo *repository.EmployeeRepository
}

// NewEmployeeHandler 创建员工处理器
func NewEmployeeHandler(db DB) *EmployeeHandler {
	return &EmployeeHandler{repo: repository.NewEmployeeRepository(db)}
}

// EmployeeCreateRequest 新增员工请求
type EmployeeCreateRequest struct {
	Name                   string  `json:"name"`
	Color                  *string `json:"color,omitempty"`
	MaxWorkDaysPerMonth    int     `json:"max_work_days_per_month"`
	MaxConsecutiveWorkDays int     `json:"max_consecutive_work_days"`
	CanWorkNight           bool    `json:"can_work_night"`
	NightOnly              bool    `json:"night_only"`
	SpecialRequirements    *string `json:"special_requirements,omitempty"`
}

// EmployeeUpdateRequest 更新员工请求，所有字段均为可选（只更新有带的字段）
type EmployeeUpdateRequest struct {
	Name                   *string `json:"name,omitempty"`
	Active                 *bool   `json:"active,omitempty"`
	Color                  *string `json:"color,omitempty"`
	MaxWorkDaysPerMonth    *int    `json:"max_work_days_per_month,omitempty"`
	MaxConsecutiveWorkDays *int    `json:"max_consecutive_work_days,omitempty"`
	CanWorkNight           *bool   `json:"can_work_night,omitempty"`
	NightOnly              *bool   `json:"night_only,omitempty"`
	SpecialRequirements    *string `json:"special_requirements,omitempty"`
}

// List 回传组织下全部员工，在职优先、依ID排序
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	employees, err := h.repo.ListAll(r.Context(), orgID)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询员工失败"))
		return
	}
	sortActiveFirst(employees)
	respondJSON(w, http.StatusOK, employees)
}

// Create 新增员工
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	var req EmployeeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, errors.New(errors.CodeInvalidInput, "name 不可为空"))
		return
	}

	canWorkNight := req.CanWorkNight
	if req.NightOnly {
		canWorkNight = true
	}

	emp := &model.Employee{
		OrgID:                  orgID,
		Name:                   name,
		Active:                 true,
		Color:                  req.Color,
		MaxWorkDaysPerMonth:    maxInt(0, req.MaxWorkDaysPerMonth),
		MaxConsecutiveWorkDays: maxInt(0, req.MaxConsecutiveWorkDays),
		CanWorkNight:           canWorkNight,
		NightOnly:              req.NightOnly,
		SpecialRequirements:    req.SpecialRequirements,
	}

	if err := h.repo.Create(r.Context(), emp); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "创建员工失败"))
		return
	}

	respondJSON(w, http.StatusCreated, emp)
}

// Update 局部更新员工
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := parseIDParam(r, "employee_id")
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	emp, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询员工失败"))
		return
	}
	if emp == nil {
		respondError(w, errors.New(errors.CodeNotFound, "employee not found"))
		return
	}

	var req EmployeeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Active != nil {
		emp.Active = *req.Active
	}
	if req.Color != nil {
		emp.Color = req.Color
	}
	if req.MaxWorkDaysPerMonth != nil {
		emp.MaxWorkDaysPerMonth = maxInt(0, *req.MaxWorkDaysPerMonth)
	}
	if req.MaxConsecutiveWorkDays != nil {
		emp.MaxConsecutiveWorkDays = maxInt(0, *req.MaxConsecutiveWorkDays)
	}
	if req.CanWorkNight != nil {
		emp.CanWorkNight = *req.CanWorkNight
	}
	if req.NightOnly != nil {
		emp.NightOnly = *req.NightOnly
	}
	if req.SpecialRequirements != nil {
		emp.SpecialRequirements = req.SpecialRequirements
	}
	if emp.NightOnly {
		emp.CanWorkNight = true
	}

	if err := h.repo.Update(r.Context(), emp); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "更新员工失败"))
		return
	}

	respondJSON(w, http.StatusOK, emp)
}

// Delete 软删除员工
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := parseIDParam(r, "employee_id")
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		// 对齐既有语意：删除不存在的员工视为成功，不报错
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func sortActiveFirst(employees []*model.Employee) {
	for i := 1; i < len(employees); i++ {
		j := i
		for j > 0 && lessEmployee(employees[j], employees[j-1]) {
			employees[j], employees[j-1] = employees[j-1], employees[j]
			j--
		}
	}
}

func lessEmployee(a, b *model.Employee) bool {
	if a.Active != b.Active {
		return a.Active
	}
	return a.ID < b.ID
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// parseOrgID 从路径占位符 {org_id} 解析必填的组织ID参数
func parseOrgID(r *http.Request) (uuid.UUID, *errors.AppError) {
	orgIDStr := r.PathValue("org_id")
	if orgIDStr == "" {
		return uuid.UUID{}, errors.New(errors.CodeInvalidInput, "缺少 org_id 参数")
	}
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return uuid.UUID{}, errors.Wrap(err, errors.CodeInvalidInput, "无效的组织ID格式")
	}
	return orgID, nil
}

// parseIDParam 从 net/http ServeMux 的 {name} 路径占位符解析 int64 ID
func parseIDParam(r *http.Request, name string) (int64, *errors.AppError) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, errors.New(errors.CodeInvalidInput, "缺少 "+name+" 参数")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInvalidInput, "无效的 "+name)
	}
	return id, nil
}
