package schedule

import (
	"fmt"
	"time"
)

// Date 是不带时区歧义的纯日期值：所有 Date 均以 UTC 午夜构造，
// 可直接比较、可作 map 键。
type Date = time.Time

// NewDate 构造一个纯日期值。
func NewDate(year int, month time.Month, day int) Date {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddDays 返回 d 之后（或之前，若 n 为负）n 天的日期。
func AddDays(d Date, n int) Date {
	return d.AddDate(0, 0, n)
}

// FormatISO 返回 YYYY-MM-DD 格式。
func FormatISO(d Date) string {
	return d.Format("2006-01-02")
}

// MonthRange 将 "YYYY-MM" 解析为该月 [起, 迄] 的闭区间。
func MonthRange(month string) (Date, Date, error) {
	var y, m int
	if _, err := fmt.Sscanf(month, "%d-%d", &y, &m); err != nil || m < 1 || m > 12 {
		return Date{}, Date{}, fmt.Errorf("月份格式错误，需为 YYYY-MM: %q", month)
	}
	start := NewDate(y, time.Month(m), 1)
	var end Date
	if m == 12 {
		end = NewDate(y+1, time.January, 1).AddDate(0, 0, -1)
	} else {
		end = NewDate(y, time.Month(m+1), 1).AddDate(0, 0, -1)
	}
	return start, end, nil
}

// IterDays 依升序遍历 [start, end] 闭区间内的每一天，调用 fn。
func IterDays(start, end Date, fn func(Date)) {
	for d := start; !d.After(end); d = AddDays(d, 1) {
		fn(d)
	}
}

// IsHoliday 判断某天是否为假日：落在显式假日清单内，或（当
// weekend_as_holiday 开启时）为周六、周日。
func IsHoliday(d Date, holidayDates map[Date]bool, weekendAsHoliday bool) bool {
	if holidayDates[d] {
		return true
	}
	if weekendAsHoliday {
		wd := d.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}
	return false
}

// HolidayTag 返回用于警告字串的日别标签。
func HolidayTag(isHoliday bool) string {
	if isHoliday {
		return "假日"
	}
	return "平日"
}
