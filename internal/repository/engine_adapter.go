// Package repository 提供数据访问层
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/paiban/paiban/internal/schedule"
	"github.com/paiban/paiban/pkg/model"
)

// EngineRepository 把组织范围内的员工/班别/排班仓储组合成
// internal/schedule.Repository 所需的存取介面。每笔写入都透过底层 DB
// 逐笔提交（与这个代码库其余仓储的做法一致），因此 Commit 是空操作；
// 引擎在生成过程中会多次呼叫 Commit（呼应原始实作一次生成过程中多次
// session.commit() 的节奏），在这里只是留下調用點，不代表事务边界。
type EngineRepository struct {
	orgID       uuid.UUID
	employees   *EmployeeRepository
	shiftTypes  *ShiftTypeRepository
	assignments *AssignmentRepository

	shiftIDToCode map[int64]string
}

// NewEngineRepository 以一个 DB 连线与组织 ID 建立引擎仓储。
func NewEngineRepository(db DB, orgID uuid.UUID) *EngineRepository {
	return &EngineRepository{
		orgID:       orgID,
		employees:   NewEmployeeRepository(db),
		shiftTypes:  NewShiftTypeRepository(db),
		assignments: NewAssignmentRepository(db),
	}
}

func (r *EngineRepository) ListActiveEmployees(ctx context.Context) ([]schedule.Employee, error) {
	rows, err := r.employees.ListActive(ctx, r.orgID)
	if err != nil {
		return nil, err
	}
	return toScheduleEmployees(rows), nil
}

func (r *EngineRepository) ListAllEmployees(ctx context.Context) ([]schedule.Employee, error) {
	rows, err := r.employees.ListAll(ctx, r.orgID)
	if err != nil {
		return nil, err
	}
	return toScheduleEmployees(rows), nil
}

func (r *EngineRepository) ListShiftTypes(ctx context.Context) ([]schedule.ShiftType, error) {
	rows, err := r.shiftTypes.List(ctx, r.orgID)
	if err != nil {
		return nil, err
	}
	r.shiftIDToCode = make(map[int64]string, len(rows))
	out := make([]schedule.ShiftType, len(rows))
	for i, st := range rows {
		r.shiftIDToCode[st.ID] = st.Code
		out[i] = schedule.ShiftType{ID: st.ID, Code: st.Code, Name: st.Name, IsWork: st.IsWork}
	}
	return out, nil
}

func (r *EngineRepository) ListAssignmentsIn(ctx context.Context, start, end schedule.Date) ([]schedule.Assignment, error) {
	if r.shiftIDToCode == nil {
		if _, err := r.ListShiftTypes(ctx); err != nil {
			return nil, err
		}
	}
	rows, err := r.assignments.ListInRange(ctx, r.orgID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]schedule.Assignment, len(rows))
	for i, a := range rows {
		note := ""
		if a.Note != nil {
			note = *a.Note
		}
		out[i] = schedule.Assignment{
			ID:          a.ID,
			EmployeeID:  a.EmployeeID,
			Day:         a.Day,
			ShiftTypeID: a.ShiftTypeID,
			Code:        r.shiftIDToCode[a.ShiftTypeID],
			Note:        note,
		}
	}
	return out, nil
}

func (r *EngineRepository) InsertAssignment(ctx context.Context, a schedule.Assignment) (int64, error) {
	row := &model.Assignment{
		OrgID:       r.orgID,
		EmployeeID:  a.EmployeeID,
		Day:         a.Day,
		ShiftTypeID: a.ShiftTypeID,
	}
	if a.Note != "" {
		row.Note = &a.Note
	}
	if err := r.assignments.Create(ctx, row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r *EngineRepository) UpdateAssignment(ctx context.Context, a schedule.Assignment) error {
	row := &model.Assignment{ID: a.ID, ShiftTypeID: a.ShiftTypeID}
	if a.Note != "" {
		row.Note = &a.Note
	}
	return r.assignments.Update(ctx, row)
}

func (r *EngineRepository) DeleteAssignment(ctx context.Context, id int64) error {
	return r.assignments.Delete(ctx, id)
}

// Commit 提交本次生成过程中的所有变更。每笔写入已逐笔提交，此处无需动作。
func (r *EngineRepository) Commit(ctx context.Context) error {
	return nil
}

func toScheduleEmployees(rows []*model.Employee) []schedule.Employee {
	out := make([]schedule.Employee, len(rows))
	for i, e := range rows {
		out[i] = schedule.Employee{
			ID:                     e.ID,
			Active:                 e.Active,
			MaxWorkDaysPerMonth:    e.MaxWorkDaysPerMonth,
			MaxConsecutiveWorkDays: e.MaxConsecutiveWorkDays,
			CanWorkNight:           e.CanWorkNight,
			NightOnly:              e.NightOnly,
		}
	}
	return out
}
