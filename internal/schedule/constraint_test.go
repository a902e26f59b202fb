package schedule

import (
	"testing"
	"time"
)

func baseEmployees() []Employee {
	return []Employee{
		{ID: 1, Active: true, CanWorkNight: true},
		{ID: 2, Active: true, CanWorkNight: false},
		{ID: 3, Active: true, CanWorkNight: true, NightOnly: true},
	}
}

func TestConstraintChecker_NightOnlyAndCanWorkNight(t *testing.T) {
	employees := baseEmployees()
	for i := range employees {
		employees[i].Normalize()
	}
	state := NewState(employees, nil)
	checker := NewConstraintChecker(employees, 6, 7)
	day := NewDate(2026, time.January, 5)
	assignedToday := map[int64]bool{}
	fixedToday := map[int64]bool{}

	tests := []struct {
		name   string
		empID  int64
		code   string
		want   bool
	}{
		{"只能排夜班者不可排早班", 3, CodeMorning, false},
		{"只能排夜班者不可排晚班", 3, CodeEvening, false},
		{"只能排夜班者可排夜班", 3, CodeNight, true},
		{"不可排夜班者不可排夜班", 2, CodeNight, false},
		{"不可排夜班者可排早班", 2, CodeMorning, true},
		{"一般员工可排任何班别", 1, CodeNight, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.CanTake(state, tt.empID, day, tt.code, assignedToday, fixedToday); got != tt.want {
				t.Errorf("CanTake(%d, %s) = %v, want %v", tt.empID, tt.code, got, tt.want)
			}
		})
	}
}

func TestConstraintChecker_NightThenMorningForbidden(t *testing.T) {
	employees := baseEmployees()
	state := NewState(employees, nil)
	checker := NewConstraintChecker(employees, 6, 7)
	day1 := NewDate(2026, time.January, 5)
	day2 := NewDate(2026, time.January, 6)

	state.MarkAssigned(1, day1, CodeNight, false)

	if got := checker.CanTake(state, 1, day2, CodeMorning, map[int64]bool{}, map[int64]bool{}); got != false {
		t.Errorf("夜班後一天不可接早班，got %v", got)
	}
	if got := checker.CanTake(state, 1, day2, CodeEvening, map[int64]bool{}, map[int64]bool{}); got != true {
		t.Errorf("夜班後一天應可接晚班，got %v", got)
	}
}

func TestConstraintChecker_ConsecutiveWorkCap(t *testing.T) {
	employees := []Employee{{ID: 1, Active: true, CanWorkNight: true, MaxConsecutiveWorkDays: 2}}
	state := NewState(employees, nil)
	checker := NewConstraintChecker(employees, 6, 7)

	day := NewDate(2026, time.January, 1)
	state.MarkAssigned(1, day, CodeMorning, false)
	day = AddDays(day, 1)
	state.MarkAssigned(1, day, CodeMorning, false)
	day = AddDays(day, 1)

	if got := checker.CanTake(state, 1, day, CodeMorning, map[int64]bool{}, map[int64]bool{}); got != false {
		t.Errorf("已连上 2 天且个人上限为 2，第 3 天应拒绝，got %v", got)
	}
}

func TestConstraintChecker_MaxWorkDaysPerMonth(t *testing.T) {
	employees := []Employee{{ID: 1, Active: true, CanWorkNight: true, MaxWorkDaysPerMonth: 1}}
	state := NewState(employees, nil)
	checker := NewConstraintChecker(employees, 6, 7)

	day := NewDate(2026, time.January, 1)
	state.MarkAssigned(1, day, CodeMorning, false)
	day = AddDays(day, 2) // 中间插入休假，打断连上，但不影响当月总工数

	if got := checker.CanTake(state, 1, day, CodeMorning, map[int64]bool{}, map[int64]bool{}); got != false {
		t.Errorf("当月上班天数已达上限 1，应拒绝，got %v", got)
	}
}

func TestResolveMaxWorkIn7(t *testing.T) {
	tests := []struct {
		minRest int
		want    int
	}{
		{2, 5},
		{0, 7},
		{7, 0},
		{-1, 7},
		{10, 0},
	}
	for _, tt := range tests {
		if got := ResolveMaxWorkIn7(tt.minRest); got != tt.want {
			t.Errorf("ResolveMaxWorkIn7(%d) = %d, want %d", tt.minRest, got, tt.want)
		}
	}
}
