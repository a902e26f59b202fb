package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/paiban/paiban/pkg/logger"
)

// Scheduler 是月度排班的单一入口：逐日贪心分配，不做回溯、不做整数规划。
type Scheduler struct {
	repo Repository
	log  *logger.SchedulerLogger
}

// NewScheduler 建立排班引擎，repo 提供全部持久化存取。
func NewScheduler(repo Repository) *Scheduler {
	return &Scheduler{repo: repo, log: logger.NewSchedulerLogger()}
}

// Generate 依 month（"YYYY-MM"）与 params 生成整月排班。
func (s *Scheduler) Generate(ctx context.Context, month string, params GenerateParams) (GenerateResult, error) {
	start, end, err := MonthRange(month)
	if err != nil {
		return GenerateResult{}, err
	}

	employees, err := s.repo.ListActiveEmployees(ctx)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("读取在职员工失败: %w", err)
	}
	for i := range employees {
		employees[i].Normalize()
	}
	if len(employees) == 0 {
		return GenerateResult{Warnings: []string{msgEmptyWorkforce}}, nil
	}
	activeIDs := make(map[int64]bool, len(employees))
	empByID := make(map[int64]Employee, len(employees))
	for _, e := range employees {
		activeIDs[e.ID] = true
		empByID[e.ID] = e
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })

	shiftTypes, err := s.repo.ListShiftTypes(ctx)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("读取班别定义失败: %w", err)
	}
	shiftsByCode := make(map[string]ShiftType, len(shiftTypes))
	for _, st := range shiftTypes {
		shiftsByCode[st.Code] = st
	}
	if missing := missingShiftTypes(shiftsByCode); len(missing) > 0 {
		return GenerateResult{Warnings: []string{msgMissingShiftTypes(missing)}}, nil
	}
	offShiftTypeID := shiftsByCode[CodeOff].ID

	runStart := time.Now()
	s.log.StartSchedule(month, len(employees), daysBetween(start, end)+1)

	var warnings []string

	existing, err := s.repo.ListAssignmentsIn(ctx, start, end)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("读取既有排班失败: %w", err)
	}

	deleted := 0
	if params.Overwrite && len(existing) > 0 {
		for _, a := range existing {
			if err := s.repo.DeleteAssignment(ctx, a.ID); err != nil {
				return GenerateResult{}, fmt.Errorf("删除既有排班失败: %w", err)
			}
			deleted++
		}
		if err := s.repo.Commit(ctx); err != nil {
			return GenerateResult{}, fmt.Errorf("提交删除失败: %w", err)
		}
		existing = nil
	}

	// fixedByDay[day][empID] = code；fixedAssignment 保留原始记录供改休时更新。
	fixedByDay := map[Date]map[int64]string{}
	fixedAssignment := map[Date]map[int64]Assignment{}
	if !params.Overwrite {
		for _, a := range existing {
			if !activeIDs[a.EmployeeID] {
				continue
			}
			code := a.Code
			if code == "" {
				continue
			}
			if fixedByDay[a.Day] == nil {
				fixedByDay[a.Day] = map[int64]string{}
				fixedAssignment[a.Day] = map[int64]Assignment{}
			}
			fixedByDay[a.Day][a.EmployeeID] = code
			fixedAssignment[a.Day][a.EmployeeID] = a
		}
	}

	state := NewState(employees, shiftTypes)
	demand := NewDemandTable(params)
	checker := NewConstraintChecker(employees, params.MaxConsecutiveWorkDays, ResolveMaxWorkIn7(params.MinRestDaysPer7))

	created := 0

	IterDays(start, end, func(day Date) {
		assignedToday := map[int64]bool{}
		todayCode := map[int64]string{}

		isHoliday := IsHoliday(day, params.HolidayDates, params.WeekendAsHoliday)
		required := demand.Required(isHoliday)
		totalNeeded := demand.Total(isHoliday)
		tag := HolidayTag(isHoliday)

		if totalNeeded > len(employees) {
			warnings = append(warnings, fmt.Sprintf("%s（%s）每日需求人數（%d）大於員工數（%d），可能排不滿。",
				FormatISO(day), tag, totalNeeded, len(employees)))
		}

		fixed := fixedByDay[day]
		fixedAssignments := fixedAssignment[day]
		fixedSet := make(map[int64]bool, len(fixed))
		for empID := range fixed {
			fixedSet[empID] = true
		}

		if !params.Overwrite && params.TrimOverstaffToOff && len(fixed) > 0 {
			for _, code := range WorkCodes {
				var assignedIDs []int64
				for empID, c := range fixed {
					if c == code {
						assignedIDs = append(assignedIDs, empID)
					}
				}
				surplus := len(assignedIDs) - required[code]
				if surplus <= 0 {
					continue
				}
				toTrim := PickTrimTargets(state, day, assignedIDs, surplus)
				for _, empID := range toTrim {
					if a, ok := fixedAssignments[empID]; ok {
						a.ShiftTypeID = offShiftTypeID
						a.Code = CodeOff
						if err := s.repo.UpdateAssignment(ctx, a); err == nil {
							fixedAssignments[empID] = a
						}
					}
					fixed[empID] = CodeOff
				}
				warnings = append(warnings, fmt.Sprintf("%s（%s）%s 班超過需求，已將 %d 人改排休假（%s）。",
					FormatISO(day), tag, code, len(toTrim), CodeOff))
			}
			_ = s.repo.Commit(ctx)
		}

		fixedCounts := map[string]int{CodeMorning: 0, CodeEvening: 0, CodeNight: 0}
		for empID, code := range fixed {
			if _, ok := empByID[empID]; !ok {
				continue
			}
			assignedToday[empID] = true
			todayCode[empID] = code
			state.MarkAssigned(empID, day, code, isHoliday)
			if state.IsWorkCode(code) {
				if isWorkLiteral(code) {
					state.RecordShiftCount(empID, code)
					fixedCounts[code]++
				}
			}
		}

		for _, code := range WorkCodes {
			if fixedCounts[code] > required[code] {
				warnings = append(warnings, fmt.Sprintf("%s（%s）%s 班固定排班 %d 人，已超過需求 %d 人。",
					FormatISO(day), tag, code, fixedCounts[code], required[code]))
			}
		}

		for _, code := range WorkCodes {
			need := required[code] - fixedCounts[code]
			if need < 0 {
				need = 0
			}
			for i := 0; i < need; i++ {
				var candidates []int64
				for _, e := range employees {
					if checker.CanTake(state, e.ID, day, code, assignedToday, fixedSet) {
						candidates = append(candidates, e.ID)
					}
				}
				if len(candidates) == 0 {
					warnings = append(warnings, fmt.Sprintf("%s（%s）%s 班缺人（需求 %d）。", FormatISO(day), tag, code, need))
					s.log.Shortage(FormatISO(day), code, need)
					break
				}

				candidatesPref, forced := FilterBlockOK(state, candidates, code, params.PreferSameShiftWithinBlock)
				if forced {
					warnings = append(warnings, fmt.Sprintf("%s（%s）%s 班無法維持同班別連上（已被迫換班）。", FormatISO(day), tag, code))
				}

				chosen := ChooseCandidate(state, day, code, candidatesPref, params.PreferClusteredWork, params.PreferSameShiftWithinBlock, isHoliday)

				newID, err := s.repo.InsertAssignment(ctx, Assignment{
					EmployeeID:  chosen,
					Day:         day,
					ShiftTypeID: shiftsByCode[code].ID,
					Code:        code,
				})
				if err == nil {
					_ = newID
					created++
				}
				assignedToday[chosen] = true
				todayCode[chosen] = code
				state.MarkAssigned(chosen, day, code, isHoliday)
				state.RecordShiftCount(chosen, code)
			}
		}

		for _, e := range employees {
			if assignedToday[e.ID] {
				continue
			}
			if _, ok := fixed[e.ID]; ok {
				continue
			}
			if _, err := s.repo.InsertAssignment(ctx, Assignment{
				EmployeeID:  e.ID,
				Day:         day,
				ShiftTypeID: offShiftTypeID,
				Code:        CodeOff,
			}); err == nil {
				created++
			}
			todayCode[e.ID] = CodeOff
			state.MarkAssigned(e.ID, day, CodeOff, isHoliday)
		}

		for _, e := range employees {
			code, ok := todayCode[e.ID]
			if !ok {
				code = CodeOff
			}
			state.AdvanceWindow(e.ID, state.IsWorkCode(code))
		}
	})

	if err := s.repo.Commit(ctx); err != nil {
		return GenerateResult{}, fmt.Errorf("提交排班失败: %w", err)
	}

	s.log.ScheduleComplete(month, time.Since(runStart), fillRatio(created, len(employees), start, end))

	return GenerateResult{Created: created, Deleted: deleted, Warnings: warnings}, nil
}

func daysBetween(start, end Date) int {
	n := 0
	IterDays(start, end, func(Date) { n++ })
	return n - 1
}

func fillRatio(created, employeeCount int, start, end Date) float64 {
	days := daysBetween(start, end) + 1
	slots := employeeCount * days
	if slots == 0 {
		return 0
	}
	return float64(created) / float64(slots)
}
