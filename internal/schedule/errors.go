package schedule

import (
	"fmt"

	apperrors "github.com/paiban/paiban/pkg/errors"
)

// Generate/Run 在正常回传值里把这三则讯息当成 warning 呈现（与原始实作
// 一致，不中断整个生成过程）。下方的 ErrXxx 函式把同样的讯息包成
// AppError（422/400）；internal/handler 不呼叫这些函式。

const (
	msgEmptyWorkforce   = "目前沒有任何啟用中的員工，無法自動排班。"
	msgMissingOffShift  = "缺少休假班別 O（請先建立/seed 班別）"
	msgNoEmployeeForFill = "目前沒有任何員工可補休假。"
)

// missingShiftTypes 检查 早/晚/夜/O 四个班别代码是否都已建立，
// 缺一则回传需要建立的代码清单。
func missingShiftTypes(byCode map[string]ShiftType) []string {
	required := []string{CodeMorning, CodeEvening, CodeNight, CodeOff}
	var missing []string
	for _, c := range required {
		if _, ok := byCode[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

func msgMissingShiftTypes(missing []string) string {
	return fmt.Sprintf("缺少班別代碼：%s（請先建立班別）", joinCodes(missing))
}

// ErrEmptyWorkforce 把「无在职员工」讯息包成 EMPTY_WORKFORCE 的 AppError。
func ErrEmptyWorkforce() error {
	return apperrors.EmptyWorkforce(msgEmptyWorkforce)
}

// ErrMissingShiftTypes 把「缺少班别代码」讯息包成 NO_FEASIBLE_SOLUTION 的 AppError。
func ErrMissingShiftTypes(missing []string) error {
	return apperrors.NoFeasibleSolution(msgMissingShiftTypes(missing))
}

// ErrBadMonth 包装月份格式错误为 AppError。
func ErrBadMonth(month string) error {
	return apperrors.BadMonth(month)
}

func joinCodes(codes []string) string {
	out := ""
	for i, c := range codes {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}
