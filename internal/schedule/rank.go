package schedule

import "sort"

// Ranker 把原始演算法中两处字典序排序（多余固定排班挑人改休、以及候选人
// 挑选）整理成可测试的纯函数。所有排序键都是元组（字段越靠前优先级越高）。

// trimKey 是决定「谁该被改休假」的排序键，数值越大越优先被改休。
type trimKey struct {
	notWorkedYesterday int // 0=昨天上班 1=昨天没上班，没上班者优先被改休
	consecutiveWork     int
	totalWork           int
	holidayWork         int
	empID               int64
}

func (a trimKey) less(b trimKey) bool {
	if a.notWorkedYesterday != b.notWorkedYesterday {
		return a.notWorkedYesterday < b.notWorkedYesterday
	}
	if a.consecutiveWork != b.consecutiveWork {
		return a.consecutiveWork < b.consecutiveWork
	}
	if a.totalWork != b.totalWork {
		return a.totalWork < b.totalWork
	}
	if a.holidayWork != b.holidayWork {
		return a.holidayWork < b.holidayWork
	}
	return a.empID < b.empID
}

// PickTrimTargets 从 assigned（某工作班别当天固定排班的员工）中挑出 surplus
// 人改排休假：排序键越大越优先被挑中。
func PickTrimTargets(state *State, day Date, assigned []int64, surplus int) []int64 {
	keys := make([]trimKey, len(assigned))
	for i, empID := range assigned {
		notYesterday := 0
		if !state.WorkedYesterday(empID, day) {
			notYesterday = 1
		}
		keys[i] = trimKey{
			notWorkedYesterday: notYesterday,
			consecutiveWork:    state.ConsecutiveWork(empID),
			totalWork:          state.TotalWork(empID),
			holidayWork:        state.HolidayWork(empID),
			empID:              empID,
		}
	}
	idx := make([]int, len(assigned))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return keys[idx[j]].less(keys[idx[i]])
	})
	if surplus > len(idx) {
		surplus = len(idx)
	}
	out := make([]int64, surplus)
	for i := 0; i < surplus; i++ {
		out[i] = assigned[idx[i]]
	}
	return out
}

// candidateKey 是候选人挑选的排序键，依 PreferClusteredWork 开关在两种
// 字段顺序之间切换，数值越小越优先被选中。
type candidateKey struct {
	primary           int // clustered: 0=昨天上班；distributed: 目前连上天数
	sameShiftPenalty  int
	perShiftCount     int
	secondary         int // clustered: -连上天数；distributed: 总上班天数（distributed 模式下 totalWork 栏固定为 0）
	totalWork         int
	holidayWorkIfHol  int
	empID             int64
}

func (a candidateKey) less(b candidateKey) bool {
	if a.primary != b.primary {
		return a.primary < b.primary
	}
	if a.sameShiftPenalty != b.sameShiftPenalty {
		return a.sameShiftPenalty < b.sameShiftPenalty
	}
	if a.perShiftCount != b.perShiftCount {
		return a.perShiftCount < b.perShiftCount
	}
	if a.secondary != b.secondary {
		return a.secondary < b.secondary
	}
	if a.totalWork != b.totalWork {
		return a.totalWork < b.totalWork
	}
	if a.holidayWorkIfHol != b.holidayWorkIfHol {
		return a.holidayWorkIfHol < b.holidayWorkIfHol
	}
	return a.empID < b.empID
}

func sameShiftPenalty(preferSameShift bool, yesterdayCode string, hasYesterdayCode bool, targetCode string) int {
	if !preferSameShift || !hasYesterdayCode || yesterdayCode == targetCode {
		return 0
	}
	return 1
}

// ChooseCandidate 从候选人（已通过 ConstraintChecker）中依偏好选出唯一一人。
// preferClusteredWork 决定排序字段顺序：
//   - 集中上班：优先昨天有上班、同班别延续、再看班别次数与连上天数
//   - 平均分散：优先连上天数较短、同班别延续、再看班别次数与总工数
func ChooseCandidate(state *State, day Date, code string, candidates []int64, preferClusteredWork, preferSameShiftWithinBlock, isHoliday bool) int64 {
	keys := make([]candidateKey, len(candidates))
	for i, empID := range candidates {
		yCode, hasY := state.YesterdayWorkShiftCode(empID, day)
		penalty := sameShiftPenalty(preferSameShiftWithinBlock, yCode, hasY, code)
		holWork := 0
		if isHoliday {
			holWork = state.HolidayWork(empID)
		}
		if preferClusteredWork {
			primary := 1
			if state.WorkedYesterday(empID, day) {
				primary = 0
			}
			keys[i] = candidateKey{
				primary:          primary,
				sameShiftPenalty: penalty,
				perShiftCount:    state.PerShiftCount(empID, code),
				secondary:        -state.ConsecutiveWork(empID),
				totalWork:        state.TotalWork(empID),
				holidayWorkIfHol: holWork,
				empID:            empID,
			}
		} else {
			keys[i] = candidateKey{
				primary:          state.ConsecutiveWork(empID),
				sameShiftPenalty: penalty,
				perShiftCount:    state.PerShiftCount(empID, code),
				secondary:        state.TotalWork(empID),
				totalWork:        0,
				holidayWorkIfHol: holWork,
				empID:            empID,
			}
		}
	}
	best := 0
	for i := 1; i < len(keys); i++ {
		if keys[i].less(keys[best]) {
			best = i
		}
	}
	return candidates[best]
}

// FilterBlockOK 若开启同班别连上偏好，先尝试把候选人收窄到 BlockOK 的子集；
// 若收窄后为空，回传原候选名单并回报「被迫换班」。
func FilterBlockOK(state *State, candidates []int64, code string, preferSameShiftWithinBlock bool) (narrowed []int64, forcedSwitch bool) {
	if !preferSameShiftWithinBlock {
		return candidates, false
	}
	var pref []int64
	for _, empID := range candidates {
		if state.BlockOK(empID, code) {
			pref = append(pref, empID)
		}
	}
	if len(pref) > 0 {
		return pref, false
	}
	return candidates, true
}
