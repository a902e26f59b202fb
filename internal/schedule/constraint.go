package schedule

// ConstraintChecker 是唯一决定「某员工今天能否排某班别」的纯函数集合。
// 与原始教学仓库的加权/可插拔约束注册表不同，这里的八条规则全部是硬性
// 准入/拒绝判断，任何一条不满足即直接拒绝，没有分数、没有权重。
type ConstraintChecker struct {
	employees  map[int64]Employee
	maxConsecutiveDefault int
	maxWorkIn7 int
}

// NewConstraintChecker 建立检查器。maxConsecutiveDefault/maxWorkIn7 取自
// GenerateParams，经由 ResolveMaxWorkIn7 换算。
func NewConstraintChecker(employees []Employee, maxConsecutiveDefault, maxWorkIn7 int) *ConstraintChecker {
	c := &ConstraintChecker{
		employees:  make(map[int64]Employee, len(employees)),
		maxConsecutiveDefault: maxConsecutiveDefault,
		maxWorkIn7: maxWorkIn7,
	}
	for _, e := range employees {
		c.employees[e.ID] = e
	}
	return c
}

// ResolveMaxWorkIn7 把「每 7 日至少休 N 日」换算成「任意 7 日内最多上班天数」，
// 并把输入夹在 [0,7] 之间。
func ResolveMaxWorkIn7(minRestDaysPer7 int) int {
	if minRestDaysPer7 < 0 {
		minRestDaysPer7 = 0
	}
	if minRestDaysPer7 > 7 {
		minRestDaysPer7 = 7
	}
	n := 7 - minRestDaysPer7
	if n < 0 {
		n = 0
	}
	return n
}

// CanTake 依序检查下列九项（第 3 项为防御性检查，其余对应八条规则），任一不满足即拒绝：
//  1. 今天已经被排过
//  2. 今天已有保留下来的既有排班（不覆盖模式）
//  3. 员工不存在
//  4. night_only 员工不可排早/晚
//  5. 不可排夜班的员工不可排夜班
//  6. 昨夜班，今早班（夜接早）禁止
//  7. 连续上班天数达到上限（员工个人优先，否则用全局参数）
//  8. 当月上班天数达到个人上限（0 表示不限制）
//  9. 任意 7 日内上班天数将超过上限
func (c *ConstraintChecker) CanTake(state *State, empID int64, day Date, code string, assignedToday map[int64]bool, fixedToday map[int64]bool) bool {
	if assignedToday[empID] {
		return false
	}
	if fixedToday[empID] {
		return false
	}
	emp, ok := c.employees[empID]
	if !ok {
		return false
	}
	if emp.NightOnly && (code == CodeMorning || code == CodeEvening) {
		return false
	}
	if code == CodeNight && !emp.CanWorkNight {
		return false
	}
	if prevCode, ok := state.YesterdayCode(empID, day); ok && prevCode == CodeNight && code == CodeMorning {
		return false
	}
	capConsec := c.maxConsecutiveDefault
	if emp.MaxConsecutiveWorkDays > 0 {
		capConsec = emp.MaxConsecutiveWorkDays
	}
	if state.ConsecutiveWork(empID) >= capConsec {
		return false
	}
	if emp.MaxWorkDaysPerMonth > 0 && state.TotalWork(empID) >= emp.MaxWorkDaysPerMonth {
		return false
	}
	if c.maxWorkIn7 < 7 && state.RecentWorkCount(empID)+1 > c.maxWorkIn7 {
		return false
	}
	return true
}
