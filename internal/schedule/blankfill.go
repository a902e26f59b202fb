package schedule

import (
	"context"
	"fmt"
)

// FillOff 把指定月份所有尚未排班的格子补成休假（O）。不会覆盖既有排班，
// 适合手动排完班之后一键补齐空白。
type FillOff struct {
	repo Repository
}

// NewFillOff 建立空白补班器。
func NewFillOff(repo Repository) *FillOff {
	return &FillOff{repo: repo}
}

// Run 执行补班：activeOnly 为 true 时只替在职员工补班。
func (f *FillOff) Run(ctx context.Context, month string, activeOnly bool) (FillOffResult, error) {
	start, end, err := MonthRange(month)
	if err != nil {
		return FillOffResult{}, err
	}

	shiftTypes, err := f.repo.ListShiftTypes(ctx)
	if err != nil {
		return FillOffResult{}, fmt.Errorf("读取班别定义失败: %w", err)
	}
	var offShiftTypeID int64
	found := false
	for _, st := range shiftTypes {
		if st.Code == CodeOff {
			offShiftTypeID = st.ID
			found = true
			break
		}
	}
	if !found {
		return FillOffResult{Warnings: []string{msgMissingOffShift}}, nil
	}

	var employees []Employee
	if activeOnly {
		employees, err = f.repo.ListActiveEmployees(ctx)
	} else {
		employees, err = f.repo.ListAllEmployees(ctx)
	}
	if err != nil {
		return FillOffResult{}, fmt.Errorf("读取员工失败: %w", err)
	}
	if len(employees) == 0 {
		return FillOffResult{Warnings: []string{msgNoEmployeeForFill}}, nil
	}

	existing, err := f.repo.ListAssignmentsIn(ctx, start, end)
	if err != nil {
		return FillOffResult{}, fmt.Errorf("读取既有排班失败: %w", err)
	}
	type key struct {
		empID int64
		day   Date
	}
	existSet := make(map[key]bool, len(existing))
	for _, a := range existing {
		existSet[key{a.EmployeeID, a.Day}] = true
	}

	created := 0
	IterDays(start, end, func(day Date) {
		for _, e := range employees {
			if existSet[key{e.ID, day}] {
				continue
			}
			if _, err := f.repo.InsertAssignment(ctx, Assignment{
				EmployeeID:  e.ID,
				Day:         day,
				ShiftTypeID: offShiftTypeID,
				Code:        CodeOff,
			}); err == nil {
				created++
			}
		}
	})

	if err := f.repo.Commit(ctx); err != nil {
		return FillOffResult{}, fmt.Errorf("提交补班失败: %w", err)
	}

	return FillOffResult{Created: created}, nil
}
