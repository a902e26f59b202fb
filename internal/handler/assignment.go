// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/paiban/internal/repository"
	"github.com/paiban/paiban/internal/schedule"
	"github.com/paiban/paiban/pkg/errors"
	"github.com/paiban/paiban/pkg/model"
)

// AssignmentHandler 排班纪录处理器：查询整月班表与手动调整单日班别。
type AssignmentHandler struct {
	assignments *repository.AssignmentRepository
	shiftTypes  *repository.ShiftTypeRepository
}

// NewAssignmentHandler 创建排班纪录处理器
func NewAssignmentHandler(db DB) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: repository.NewAssignmentRepository(db),
		shiftTypes:  repository.NewShiftTypeRepository(db),
	}
}

// AssignmentDTO 对外呈现的排班纪录，附带班别代码与名称，省去前端反查。
type AssignmentDTO struct {
	EmployeeID  int64   `json:"employee_id"`
	Day         string  `json:"day"`
	ShiftTypeID int64   `json:"shift_type_id"`
	ShiftCode   string  `json:"shift_code"`
	ShiftName   string  `json:"shift_name"`
	Note        *string `json:"note,omitempty"`
}

// AssignmentUpsertRequest 单笔新增/覆盖/删除请求。ShiftTypeID 为 nil 表示删除当天指派。
type AssignmentUpsertRequest struct {
	EmployeeID  int64   `json:"employee_id"`
	Day         string  `json:"day"`
	ShiftTypeID *int64  `json:"shift_type_id"`
	Note        *string `json:"note,omitempty"`
}

// BulkUpsertRequest 批次调整请求
type BulkUpsertRequest struct {
	Items []AssignmentUpsertRequest `json:"items"`
}

// List 回传整月排班纪录，依日期升序
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	month := r.URL.Query().Get("month")
	if month == "" {
		respondError(w, errors.New(errors.CodeInvalidInput, "缺少 month 参数，应为 YYYY-MM"))
		return
	}
	start, end, err := schedule.MonthRange(month)
	if err != nil {
		respondError(w, errors.BadMonth(month))
		return
	}

	items, err := h.assignments.ListInRange(r.Context(), orgID, start, end)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询排班纪录失败"))
		return
	}
	if len(items) == 0 {
		respondJSON(w, http.StatusOK, []AssignmentDTO{})
		return
	}

	shiftTypes, err := h.shiftTypes.List(r.Context(), orgID)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询班别失败"))
		return
	}
	byID := make(map[int64]*model.ShiftType, len(shiftTypes))
	for _, st := range shiftTypes {
		byID[st.ID] = st
	}

	out := make([]AssignmentDTO, 0, len(items))
	for _, a := range items {
		st, ok := byID[a.ShiftTypeID]
		if !ok {
			continue
		}
		out = append(out, AssignmentDTO{
			EmployeeID:  a.EmployeeID,
			Day:         schedule.FormatISO(a.Day),
			ShiftTypeID: a.ShiftTypeID,
			ShiftCode:   st.Code,
			ShiftName:   st.Name,
			Note:        a.Note,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// Upsert 新增或覆盖单一员工单日的排班，shift_type_id 为 null 时删除当天指派。
func (h *AssignmentHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	var req AssignmentUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	result, appErr := h.upsertOne(r, orgID, req)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// BulkUpsert 批次调整多笔排班，沿用单笔调整的逻辑逐一处理。
func (h *AssignmentHandler) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	var req BulkUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	for _, item := range req.Items {
		if _, appErr := h.upsertOne(r, orgID, item); appErr != nil {
			respondError(w, appErr)
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "count": len(req.Items)})
}

func (h *AssignmentHandler) upsertOne(r *http.Request, orgID uuid.UUID, req AssignmentUpsertRequest) (map[string]interface{}, *errors.AppError) {
	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "day 格式无效: "+req.Day)
	}

	if req.ShiftTypeID == nil {
		existing, err := h.assignments.ListByEmployee(r.Context(), orgID, req.EmployeeID, day, day)
		if err != nil {
			return nil, asAppError(err, errors.CodeDatabaseError, "查询排班纪录失败")
		}
		for _, a := range existing {
			if err := h.assignments.Delete(r.Context(), a.ID); err != nil {
				return nil, asAppError(err, errors.CodeDatabaseError, "删除排班纪录失败")
			}
		}
		return map[string]interface{}{"ok": true, "deleted": true}, nil
	}

	shift, err := h.shiftTypes.GetByID(r.Context(), *req.ShiftTypeID)
	if err != nil {
		return nil, asAppError(err, errors.CodeDatabaseError, "查询班别失败")
	}
	if shift == nil || shift.OrgID != orgID {
		return nil, errors.New(errors.CodeInvalidInput, "shift_type_id 不存在")
	}

	a := &model.Assignment{
		OrgID:       orgID,
		EmployeeID:  req.EmployeeID,
		Day:         day,
		ShiftTypeID: *req.ShiftTypeID,
		Note:        req.Note,
	}
	if err := h.assignments.Upsert(r.Context(), a); err != nil {
		return nil, asAppError(err, errors.CodeDatabaseError, "写入排班纪录失败")
	}
	return map[string]interface{}{"ok": true}, nil
}
