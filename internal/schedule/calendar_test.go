package schedule

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		month     string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"一月份", "2026-01", "2026-01-01", "2026-01-31", false},
		{"二月平年", "2026-02", "2026-02-01", "2026-02-28", false},
		{"四月小月", "2026-04", "2026-04-01", "2026-04-30", false},
		{"跨年十二月", "2026-12", "2026-12-01", "2026-12-31", false},
		{"格式错误", "2026/01", "", "", true},
		{"月份超界", "2026-13", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := MonthRange(tt.month)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("MonthRange(%q) 应返回错误", tt.month)
				}
				return
			}
			if err != nil {
				t.Fatalf("MonthRange(%q) 返回非预期错误: %v", tt.month, err)
			}
			if got := FormatISO(start); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := FormatISO(end); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestIterDays(t *testing.T) {
	start := NewDate(2026, time.January, 30)
	end := NewDate(2026, time.February, 2)

	var got []string
	IterDays(start, end, func(d Date) {
		got = append(got, FormatISO(d))
	})

	want := []string{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"}
	if len(got) != len(want) {
		t.Fatalf("迭代天数 = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("第 %d 天 = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestIsHoliday(t *testing.T) {
	explicit := map[Date]bool{NewDate(2026, time.January, 1): true}

	tests := []struct {
		name             string
		day              Date
		weekendAsHoliday bool
		want             bool
	}{
		{"显式假日", NewDate(2026, time.January, 1), false, true},
		{"周六且启用周末假日", NewDate(2026, time.January, 3), true, true}, // 2026-01-03 是周六
		{"周六但未启用周末假日", NewDate(2026, time.January, 3), false, false},
		{"平日", NewDate(2026, time.January, 5), true, false}, // 周一
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHoliday(tt.day, explicit, tt.weekendAsHoliday); got != tt.want {
				t.Errorf("IsHoliday() = %v, want %v", got, tt.want)
			}
		})
	}
}
