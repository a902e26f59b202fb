package schedule

import "testing"

func TestDemandTableRequired(t *testing.T) {
	params := GenerateParams{
		WeekdayMorning: 1, WeekdayEvening: 1, WeekdayNight: 1,
		HolidayMorning: 2, HolidayEvening: 2, HolidayNight: 1,
	}
	table := NewDemandTable(params)

	tests := []struct {
		name      string
		isHoliday bool
		wantTotal int
	}{
		{"平日需求", false, 3},
		{"假日需求", true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Total(tt.isHoliday); got != tt.wantTotal {
				t.Errorf("Total(%v) = %d, want %d", tt.isHoliday, got, tt.wantTotal)
			}
		})
	}
}

func TestDemandTableClampsNegative(t *testing.T) {
	table := NewDemandTable(GenerateParams{WeekdayMorning: -5, HolidayNight: -1})
	if got := table.Required(false)[CodeMorning]; got != 0 {
		t.Errorf("负数平日早班需求应夹到 0，got %d", got)
	}
	if got := table.Required(true)[CodeNight]; got != 0 {
		t.Errorf("负数假日夜班需求应夹到 0，got %d", got)
	}
}
