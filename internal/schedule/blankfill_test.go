package schedule

import (
	"context"
	"testing"
)

func TestFillOff_FillsOnlyBlankDays(t *testing.T) {
	employees := []Employee{{ID: 1, Active: true}, {ID: 2, Active: true}}
	repo := newMemRepo(employees, defaultShiftTypes())

	start, _, _ := MonthRange("2026-03")
	repo.assignments = append(repo.assignments, Assignment{ID: 1, EmployeeID: 1, Day: start, ShiftTypeID: 1, Code: CodeMorning})
	repo.nextID = 2

	f := NewFillOff(repo)
	result, err := f.Run(context.Background(), "2026-03", true)
	if err != nil {
		t.Fatalf("Run() 返回错误: %v", err)
	}

	start2, end2, _ := MonthRange("2026-03")
	wantDays := daysBetween(start2, end2) + 1
	wantCreated := wantDays*len(employees) - 1 // 扣掉已存在的那一笔
	if result.Created != wantCreated {
		t.Errorf("Created = %d, want %d", result.Created, wantCreated)
	}

	for _, a := range repo.assignments {
		if a.EmployeeID == 1 && a.Day.Equal(start) && a.Code != CodeMorning {
			t.Errorf("既有排班不应被覆盖: %+v", a)
		}
	}
}

func TestFillOff_NoEmployees(t *testing.T) {
	repo := newMemRepo(nil, defaultShiftTypes())
	f := NewFillOff(repo)
	result, err := f.Run(context.Background(), "2026-03", true)
	if err != nil {
		t.Fatalf("Run() 返回错误: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("应恰好有一条警告，got %v", result.Warnings)
	}
}
