// Package repository 提供数据访问层
package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/paiban/paiban/pkg/model"
)

// defaultShiftType 是种子阶段要确保存在的标准班别定义。
type defaultShiftType struct {
	code      string
	name      string
	isWork    bool
	startTime *string
	endTime   *string
}

func strPtr(s string) *string { return &s }

// defaultShiftTypes 回传五个标准班别的种子定义。
func defaultShiftTypes() []defaultShiftType {
	return []defaultShiftType{
		{code: model_CodeMorning, name: "早班", isWork: true, startTime: strPtr("07:00:00"), endTime: strPtr("15:00:00")},
		{code: model_CodeEvening, name: "晚班", isWork: true, startTime: strPtr("15:00:00"), endTime: strPtr("23:00:00")},
		{code: model_CodeNight, name: "夜班", isWork: true, startTime: strPtr("23:00:00"), endTime: strPtr("07:00:00")},
		{code: model_CodeOff, name: "休假", isWork: false},
		{code: model_CodeLeave, name: "請假", isWork: false},
	}
}

// 与 internal/schedule 的班别代码常量保持一致，但仓储层刻意不依赖
// 核心引擎包，避免持久化层反向依赖领域层，故在此重复声明字面量。
const (
	model_CodeMorning = "早"
	model_CodeEvening = "晚"
	model_CodeNight   = "夜"
	model_CodeOff     = "O"
	model_CodeLeave   = "L"
)

// legacyShiftCodeMap 把旧版班别代码（M/E/N）对应到现行代码（早/晚/夜）。
var legacyShiftCodeMap = map[string]string{
	"M": model_CodeMorning,
	"E": model_CodeEvening,
	"N": model_CodeNight,
}

// SeedRepository 负责组织建立时的预设资料：合并旧版班别代码、补齐标准班别。
type SeedRepository struct {
	shiftTypes  *ShiftTypeRepository
	assignments *AssignmentRepository
}

// NewSeedRepository 创建种子仓储
func NewSeedRepository(db DB) *SeedRepository {
	return &SeedRepository{
		shiftTypes:  NewShiftTypeRepository(db),
		assignments: NewAssignmentRepository(db),
	}
}

// EnsureDefaultShiftTypes 合并旧版班别代码（保留既有排班纪录），并补齐/更新
// 五个标准班别。可重复执行，幂等。
func (s *SeedRepository) EnsureDefaultShiftTypes(ctx context.Context, orgID uuid.UUID) error {
	existing, err := s.shiftTypes.List(ctx, orgID)
	if err != nil {
		return err
	}

	byCode := map[string][]*model.ShiftType{}
	for _, st := range existing {
		byCode[st.Code] = append(byCode[st.Code], st)
	}

	pickPrimary := func(items []*model.ShiftType) *model.ShiftType {
		sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
		return items[0]
	}

	for oldCode, newCode := range legacyShiftCodeMap {
		oldRows := byCode[oldCode]
		newRows := byCode[newCode]
		if len(oldRows) == 0 && len(newRows) == 0 {
			continue
		}

		var primary *model.ShiftType
		if len(newRows) > 0 {
			primary = pickPrimary(newRows)
		} else {
			primary = pickPrimary(oldRows)
			primary.Code = newCode
			if err := s.shiftTypes.Update(ctx, primary); err != nil {
				return err
			}
		}

		all := append(append([]*model.ShiftType{}, oldRows...), newRows...)
		for _, dup := range all {
			if dup.ID == primary.ID {
				continue
			}
			if err := s.assignments.RepointShiftType(ctx, orgID, dup.ID, primary.ID); err != nil {
				return err
			}
			if err := s.shiftTypes.Delete(ctx, dup.ID); err != nil {
				return err
			}
		}

		byCode[newCode] = []*model.ShiftType{primary}
		delete(byCode, oldCode)
	}

	// 重新读取，避免前一阶段的合并让 byCode 与资料不同步。
	refreshed, err := s.shiftTypes.List(ctx, orgID)
	if err != nil {
		return err
	}
	byCodeFinal := map[string]*model.ShiftType{}
	for _, st := range refreshed {
		byCodeFinal[st.Code] = st
	}

	for _, d := range defaultShiftTypes() {
		existing, ok := byCodeFinal[d.code]
		if !ok {
			st := &model.ShiftType{
				OrgID:     orgID,
				Code:      d.code,
				Name:      d.name,
				IsWork:    d.isWork,
				StartTime: d.startTime,
				EndTime:   d.endTime,
			}
			if err := s.shiftTypes.Create(ctx, st); err != nil {
				return err
			}
			continue
		}
		existing.Name = d.name
		existing.IsWork = d.isWork
		if d.startTime != nil {
			existing.StartTime = d.startTime
		}
		if d.endTime != nil {
			existing.EndTime = d.endTime
		}
		if err := s.shiftTypes.Update(ctx, existing); err != nil {
			return err
		}
	}

	return nil
}
