package schedule

import (
	"context"
	"testing"
)

// memRepo 是给测试用的内存版 Repository 实作。
type memRepo struct {
	employees   []Employee
	shiftTypes  []ShiftType
	assignments []Assignment
	nextID      int64
}

func newMemRepo(employees []Employee, shiftTypes []ShiftType) *memRepo {
	return &memRepo{employees: employees, shiftTypes: shiftTypes, nextID: 1}
}

func (r *memRepo) ListActiveEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	for _, e := range r.employees {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepo) ListAllEmployees(ctx context.Context) ([]Employee, error) {
	return r.employees, nil
}

func (r *memRepo) ListShiftTypes(ctx context.Context) ([]ShiftType, error) {
	return r.shiftTypes, nil
}

func (r *memRepo) ListAssignmentsIn(ctx context.Context, start, end Date) ([]Assignment, error) {
	var out []Assignment
	for _, a := range r.assignments {
		if !a.Day.Before(start) && !a.Day.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memRepo) InsertAssignment(ctx context.Context, a Assignment) (int64, error) {
	a.ID = r.nextID
	r.nextID++
	r.assignments = append(r.assignments, a)
	return a.ID, nil
}

func (r *memRepo) UpdateAssignment(ctx context.Context, a Assignment) error {
	for i := range r.assignments {
		if r.assignments[i].ID == a.ID {
			r.assignments[i] = a
			return nil
		}
	}
	return nil
}

func (r *memRepo) DeleteAssignment(ctx context.Context, id int64) error {
	for i, a := range r.assignments {
		if a.ID == id {
			r.assignments = append(r.assignments[:i], r.assignments[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memRepo) Commit(ctx context.Context) error { return nil }

func defaultShiftTypes() []ShiftType {
	return []ShiftType{
		{ID: 1, Code: CodeMorning, Name: "早班", IsWork: true},
		{ID: 2, Code: CodeEvening, Name: "晚班", IsWork: true},
		{ID: 3, Code: CodeNight, Name: "夜班", IsWork: true},
		{ID: 4, Code: CodeOff, Name: "休假", IsWork: false},
		{ID: 5, Code: CodeLeave, Name: "请假", IsWork: false},
	}
}

func TestScheduler_GenerateCoversEveryDay(t *testing.T) {
	employees := []Employee{
		{ID: 1, Active: true, CanWorkNight: true},
		{ID: 2, Active: true, CanWorkNight: true},
		{ID: 3, Active: true, CanWorkNight: true},
		{ID: 4, Active: true, CanWorkNight: true},
	}
	repo := newMemRepo(employees, defaultShiftTypes())
	s := NewScheduler(repo)

	params := GenerateParams{
		WeekdayMorning: 1, WeekdayEvening: 1, WeekdayNight: 1,
		HolidayMorning: 1, HolidayEvening: 1, HolidayNight: 1,
		WeekendAsHoliday:           true,
		Overwrite:                  true,
		TrimOverstaffToOff:         true,
		PreferClusteredWork:        true,
		PreferSameShiftWithinBlock: true,
		MaxConsecutiveWorkDays:     6,
		MinRestDaysPer7:            2,
	}

	result, err := s.Generate(context.Background(), "2026-02", params)
	if err != nil {
		t.Fatalf("Generate() 返回错误: %v", err)
	}
	if result.Created == 0 {
		t.Fatalf("应至少建立一笔排班")
	}

	start, end, _ := MonthRange("2026-02")
	perDay := map[Date]map[int64]string{}
	IterDays(start, end, func(d Date) { perDay[d] = map[int64]string{} })
	for _, a := range repo.assignments {
		perDay[a.Day][a.EmployeeID] = a.Code
	}
	for d, byEmp := range perDay {
		if len(byEmp) != len(employees) {
			t.Errorf("%s 应为每位在职员工各排一笔，got %d", FormatISO(d), len(byEmp))
		}
	}
}

func TestScheduler_EmptyWorkforceReturnsWarningNotError(t *testing.T) {
	repo := newMemRepo(nil, defaultShiftTypes())
	s := NewScheduler(repo)

	result, err := s.Generate(context.Background(), "2026-02", GenerateParams{})
	if err != nil {
		t.Fatalf("无在职员工不应返回 error，got %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("应恰好有一条警告，got %v", result.Warnings)
	}
	if result.Created != 0 {
		t.Errorf("无员工时不应有任何建立，got %d", result.Created)
	}
}

func TestScheduler_MissingShiftTypesReturnsWarning(t *testing.T) {
	employees := []Employee{{ID: 1, Active: true}}
	repo := newMemRepo(employees, []ShiftType{{ID: 1, Code: CodeMorning, IsWork: true}})
	s := NewScheduler(repo)

	result, err := s.Generate(context.Background(), "2026-02", GenerateParams{})
	if err != nil {
		t.Fatalf("缺少班别不应返回 error，got %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("应恰好有一条警告，got %v", result.Warnings)
	}
}

func TestScheduler_NightOnlyEmployeeNeverGetsMorningOrEvening(t *testing.T) {
	employees := []Employee{
		{ID: 1, Active: true, NightOnly: true},
		{ID: 2, Active: true, CanWorkNight: true},
	}
	repo := newMemRepo(employees, defaultShiftTypes())
	s := NewScheduler(repo)

	params := GenerateParams{
		WeekdayMorning: 1, WeekdayEvening: 0, WeekdayNight: 1,
		HolidayMorning: 1, HolidayEvening: 0, HolidayNight: 1,
		Overwrite: true, MaxConsecutiveWorkDays: 6, MinRestDaysPer7: 0,
	}
	if _, err := s.Generate(context.Background(), "2026-02", params); err != nil {
		t.Fatalf("Generate() 返回错误: %v", err)
	}

	for _, a := range repo.assignments {
		if a.EmployeeID == 1 && (a.Code == CodeMorning || a.Code == CodeEvening) {
			t.Fatalf("night_only 员工不应被排早/晚班: %+v", a)
		}
	}
}

func TestScheduler_OverwriteFalsePreservesExisting(t *testing.T) {
	employees := []Employee{
		{ID: 1, Active: true, CanWorkNight: true},
		{ID: 2, Active: true, CanWorkNight: true},
	}
	repo := newMemRepo(employees, defaultShiftTypes())
	start, _, _ := MonthRange("2026-02")
	repo.assignments = append(repo.assignments, Assignment{ID: 100, EmployeeID: 1, Day: start, ShiftTypeID: 3, Code: CodeNight})
	repo.nextID = 101

	s := NewScheduler(repo)
	params := GenerateParams{
		WeekdayMorning: 0, WeekdayEvening: 0, WeekdayNight: 1,
		HolidayMorning: 0, HolidayEvening: 0, HolidayNight: 1,
		Overwrite: false, MaxConsecutiveWorkDays: 6, MinRestDaysPer7: 0,
	}
	if _, err := s.Generate(context.Background(), "2026-02", params); err != nil {
		t.Fatalf("Generate() 返回错误: %v", err)
	}

	found := false
	for _, a := range repo.assignments {
		if a.ID == 100 {
			found = true
			if a.Code != CodeNight {
				t.Errorf("不覆盖模式下既有排班不应被改写: %+v", a)
			}
		}
	}
	if !found {
		t.Fatalf("既有排班不应被删除")
	}
}
