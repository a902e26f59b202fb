package schedule

import (
	"testing"
	"time"
)

func TestPickTrimTargets(t *testing.T) {
	employees := []Employee{{ID: 1, Active: true}, {ID: 2, Active: true}, {ID: 3, Active: true}}
	state := NewState(employees, nil)
	day := NewDate(2026, time.January, 10)
	prevDay := AddDays(day, -1)

	// 员工 1 昨天有上班，员工 2、3 昨天没上班；trimKey 越大越优先被改休，
	// 「昨天没上班」排在最前，因此 2、3 应先于 1 被选中。
	state.MarkAssigned(1, prevDay, CodeMorning, false)

	got := PickTrimTargets(state, day, []int64{1, 2, 3}, 2)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	for _, id := range got {
		if id == 1 {
			t.Errorf("昨天有上班的员工 1 不应被优先改休: %v", got)
		}
	}
}

func TestChooseCandidate_PreferClusteredWork(t *testing.T) {
	employees := []Employee{{ID: 1, Active: true}, {ID: 2, Active: true}}
	state := NewState(employees, nil)
	day := NewDate(2026, time.January, 10)
	prevDay := AddDays(day, -1)

	// 员工 1 昨天上早班，员工 2 昨天没上班；集中上班模式下应优先选 1。
	state.MarkAssigned(1, prevDay, CodeMorning, false)

	chosen := ChooseCandidate(state, day, CodeMorning, []int64{1, 2}, true, true, false)
	if chosen != 1 {
		t.Errorf("集中上班模式下应选择昨天已上班的员工 1，got %d", chosen)
	}
}

func TestChooseCandidate_DistributedPrefersShorterStreak(t *testing.T) {
	employees := []Employee{{ID: 1, Active: true}, {ID: 2, Active: true}}
	state := NewState(employees, nil)
	day := NewDate(2026, time.January, 10)
	prevDay := AddDays(day, -1)

	state.MarkAssigned(1, prevDay, CodeMorning, false)

	chosen := ChooseCandidate(state, day, CodeMorning, []int64{1, 2}, false, true, false)
	if chosen != 2 {
		t.Errorf("平均分散模式下应选择连上天数较短的员工 2，got %d", chosen)
	}
}

func TestFilterBlockOK(t *testing.T) {
	employees := []Employee{{ID: 1, Active: true}, {ID: 2, Active: true}}
	state := NewState(employees, nil)
	day := NewDate(2026, time.January, 10)
	prevDay := AddDays(day, -1)

	state.MarkAssigned(1, prevDay, CodeMorning, false) // 连上段已固定为早班

	narrowed, forced := FilterBlockOK(state, []int64{1, 2}, CodeEvening, true)
	if forced {
		t.Fatalf("候选人 2 的 block 尚未固定，不应被迫换班")
	}
	if len(narrowed) != 1 || narrowed[0] != 2 {
		t.Errorf("narrowed = %v, want [2]", narrowed)
	}

	_, forcedAll := FilterBlockOK(state, []int64{1}, CodeEvening, true)
	if !forcedAll {
		t.Errorf("唯一候选人与其连上段班别不符时应标记被迫换班")
	}
}
