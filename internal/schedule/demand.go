package schedule

// DemandTable 依平日/假日分别给出三个工作班别的人数需求。
type DemandTable struct {
	WeekdayMorning int
	WeekdayEvening int
	WeekdayNight   int
	HolidayMorning int
	HolidayEvening int
	HolidayNight   int
}

// NewDemandTable 从 GenerateParams 取出需求部分，负数一律夹到 0。
func NewDemandTable(p GenerateParams) DemandTable {
	clamp := func(n int) int {
		if n < 0 {
			return 0
		}
		return n
	}
	return DemandTable{
		WeekdayMorning: clamp(p.WeekdayMorning),
		WeekdayEvening: clamp(p.WeekdayEvening),
		WeekdayNight:   clamp(p.WeekdayNight),
		HolidayMorning: clamp(p.HolidayMorning),
		HolidayEvening: clamp(p.HolidayEvening),
		HolidayNight:   clamp(p.HolidayNight),
	}
}

// Required 返回某天各工作班别的需求人数。
func (t DemandTable) Required(isHoliday bool) map[string]int {
	if isHoliday {
		return map[string]int{
			CodeMorning: t.HolidayMorning,
			CodeEvening: t.HolidayEvening,
			CodeNight:   t.HolidayNight,
		}
	}
	return map[string]int{
		CodeMorning: t.WeekdayMorning,
		CodeEvening: t.WeekdayEvening,
		CodeNight:   t.WeekdayNight,
	}
}

// Total 返回某天三个工作班别需求的合计。
func (t DemandTable) Total(isHoliday bool) int {
	req := t.Required(isHoliday)
	return req[CodeMorning] + req[CodeEvening] + req[CodeNight]
}
