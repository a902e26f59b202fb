package schedule

// employeeState 追踪单一员工在生成过程中随日推进而变化的状态。
type employeeState struct {
	hasLast        bool
	lastDay        Date
	lastCode       string
	consecutiveWork int
	totalWork       int
	holidayWork     int
	perShiftCount   map[string]int
	// last7WorkFlags 保留最近最多 6 天（不含今天）的「是否上班」旗标，
	// 供「任意 7 日」规则在今天推入前先行检查。
	last7WorkFlags []bool
	// blockShift 是本段连续上班（两次非工作日之间）已固定下来的班别；
	// 为空字串表示尚未固定或目前不在连上段中。
	blockShift string
}

// State 保存全体员工的排班状态，并提供 ConstraintChecker/Ranker 所需的查询。
type State struct {
	shiftIsWork map[string]bool
	emp         map[int64]*employeeState
}

// NewState 依员工与班别清单初始化一份空白状态。
func NewState(employees []Employee, shiftTypes []ShiftType) *State {
	s := &State{
		shiftIsWork: make(map[string]bool, len(shiftTypes)),
		emp:         make(map[int64]*employeeState, len(employees)),
	}
	for _, st := range shiftTypes {
		s.shiftIsWork[st.Code] = st.IsWork
	}
	for _, e := range employees {
		s.emp[e.ID] = &employeeState{
			perShiftCount: map[string]int{
				CodeMorning: 0,
				CodeEvening: 0,
				CodeNight:   0,
			},
		}
	}
	return s
}

// IsWorkCode 判断某班别代码是否为工作班；未知班别代码时退回 WorkCodes 字面量判断。
func (s *State) IsWorkCode(code string) bool {
	if code == "" {
		return false
	}
	if isWork, ok := s.shiftIsWork[code]; ok {
		return isWork
	}
	for _, c := range WorkCodes {
		if c == code {
			return true
		}
	}
	return false
}

func (s *State) get(empID int64) *employeeState {
	st, ok := s.emp[empID]
	if !ok {
		st = &employeeState{perShiftCount: map[string]int{}}
		s.emp[empID] = st
	}
	return st
}

// WorkedYesterday 判断该员工昨天是否上班（昨天确实有记录且为工作班）。
func (s *State) WorkedYesterday(empID int64, day Date) bool {
	st := s.get(empID)
	if !st.hasLast {
		return false
	}
	return st.lastDay.Equal(AddDays(day, -1)) && s.IsWorkCode(st.lastCode)
}

// YesterdayWorkShiftCode 若昨天排的是三个工作班别之一则返回该代码。
func (s *State) YesterdayWorkShiftCode(empID int64, day Date) (string, bool) {
	st := s.get(empID)
	if !st.hasLast || !st.lastDay.Equal(AddDays(day, -1)) {
		return "", false
	}
	for _, c := range WorkCodes {
		if c == st.lastCode {
			return c, true
		}
	}
	return "", false
}

// YesterdayCode 返回昨天实际记录的班别代码（不限工作班），用于夜接早的判断。
func (s *State) YesterdayCode(empID int64, day Date) (string, bool) {
	st := s.get(empID)
	if !st.hasLast || !st.lastDay.Equal(AddDays(day, -1)) {
		return "", false
	}
	return st.lastCode, true
}

// BlockOK 判断 target 班别是否与该员工目前连上段已固定的班别相容。
func (s *State) BlockOK(empID int64, targetCode string) bool {
	bs := s.get(empID).blockShift
	return bs == "" || bs == targetCode
}

// ConsecutiveWork 返回目前连续上班天数。
func (s *State) ConsecutiveWork(empID int64) int {
	return s.get(empID).consecutiveWork
}

// TotalWork 返回本月累计上班天数。
func (s *State) TotalWork(empID int64) int {
	return s.get(empID).totalWork
}

// HolidayWork 返回本月累计假日上班天数。
func (s *State) HolidayWork(empID int64) int {
	return s.get(empID).holidayWork
}

// PerShiftCount 返回该员工在指定工作班别上累计的天数。
func (s *State) PerShiftCount(empID int64, code string) int {
	return s.get(empID).perShiftCount[code]
}

// RecentWorkCount 返回最近（最多 6 天）窗口内已记录的上班天数。
func (s *State) RecentWorkCount(empID int64) int {
	n := 0
	for _, worked := range s.get(empID).last7WorkFlags {
		if worked {
			n++
		}
	}
	return n
}

// MarkAssigned 记录某员工当天被排定的班别，更新所有滚动状态。
func (s *State) MarkAssigned(empID int64, day Date, code string, isHoliday bool) {
	st := s.get(empID)
	wasWorkYesterday := s.WorkedYesterday(empID, day)

	st.lastDay = day
	st.lastCode = code
	st.hasLast = true

	if s.IsWorkCode(code) {
		st.consecutiveWork++
		st.totalWork++
		if isHoliday {
			st.holidayWork++
		}
		if !wasWorkYesterday {
			if isWorkLiteral(code) {
				st.blockShift = code
			} else {
				st.blockShift = ""
			}
		} else if st.blockShift == "" && isWorkLiteral(code) {
			st.blockShift = code
		}
	} else {
		st.consecutiveWork = 0
		st.blockShift = ""
	}
}

// RecordShiftCount 在指定工作班别上为员工累加一天的计数（由 Scheduler 在实际
// 选定候选人时调用，与 MarkAssigned 分开是为了与原始实作的调用顺序保持一致）。
func (s *State) RecordShiftCount(empID int64, code string) {
	st := s.get(empID)
	st.perShiftCount[code]++
}

// AdvanceWindow 在某天结束时，把当天「是否上班」推入滚动窗口，并裁剪至 6 天。
func (s *State) AdvanceWindow(empID int64, workedToday bool) {
	st := s.get(empID)
	st.last7WorkFlags = append(st.last7WorkFlags, workedToday)
	for len(st.last7WorkFlags) > 6 {
		st.last7WorkFlags = st.last7WorkFlags[1:]
	}
}

func isWorkLiteral(code string) bool {
	for _, c := range WorkCodes {
		if c == code {
			return true
		}
	}
	return false
}
