// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/paiban/internal/repository"
	"github.com/paiban/paiban/internal/schedule"
	"github.com/paiban/paiban/pkg/errors"
)

// ScheduleHandler 月度排班处理器：生成排班、补齐休假。
type ScheduleHandler struct {
	db orgLockDB
}

// DB 是建立组织范围仓储所需的最小连线介面，由 internal/repository.DB 满足。
type DB = repository.DB

// orgLockDB 在 DB 之外还能以组织咨询锁序列化单次排班，由 *database.DB 满足。
type orgLockDB interface {
	DB
	WithOrgLock(ctx context.Context, orgID uuid.UUID, fn func(ctx context.Context) error) error
}

// NewScheduleHandler 创建排班处理器
func NewScheduleHandler(db orgLockDB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

// GenerateRequest 对应一次月度排班生成请求的可调参数，缺省值与原始排班
// 服务一致：平日各班一人、假日早晚各两人夜班一人、周末视为假日、
// 不覆盖既有排班、超额自动改休、倾向集中上班、同一上班段锁定班别、
// 最多连续上班 6 天、每 7 天至少休 2 天。
type GenerateRequest struct {
	WeekdayMorning int `json:"weekday_morning"`
	WeekdayEvening int `json:"weekday_evening"`
	WeekdayNight   int `json:"weekday_night"`
	HolidayMorning int `json:"holiday_morning"`
	HolidayEvening int `json:"holiday_evening"`
	HolidayNight   int `json:"holiday_night"`

	WeekendAsHoliday bool     `json:"weekend_as_holiday"`
	HolidayDates     []string `json:"holiday_dates"`

	Overwrite                  bool `json:"overwrite"`
	TrimOverstaffToOff         bool `json:"trim_overstaff_to_off"`
	PreferClusteredWork        bool `json:"prefer_clustered_work"`
	PreferSameShiftWithinBlock bool `json:"prefer_same_shift_within_block"`
	MaxConsecutiveWorkDays     int  `json:"max_consecutive_work_days"`
	MinRestDaysPer7            int  `json:"min_rest_days_per_7"`
}

// defaultGenerateRequest 回传与原始排班服务一致的缺省参数。
func defaultGenerateRequest() GenerateRequest {
	return GenerateRequest{
		WeekdayMorning:             1,
		WeekdayEvening:             1,
		WeekdayNight:               1,
		HolidayMorning:             2,
		HolidayEvening:             2,
		HolidayNight:               1,
		WeekendAsHoliday:           true,
		Overwrite:                  false,
		TrimOverstaffToOff:         true,
		PreferClusteredWork:        true,
		PreferSameShiftWithinBlock: true,
		MaxConsecutiveWorkDays:     6,
		MinRestDaysPer7:            2,
	}
}

// GenerateResponse 生成排班的响应
type GenerateResponse struct {
	OK       bool     `json:"ok"`
	Created  int      `json:"created"`
	Deleted  int      `json:"deleted"`
	Warnings []string `json:"warnings"`
}

// Generate 依月份生成整月排班。组织以路径 {org_id} 指定，月份以
// ?month=YYYY-MM 查询参数指定。
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	orgID, month, appErr := h.parseOrgAndMonth(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	req := defaultGenerateRequest()
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
			return
		}
	}

	holidayDates := make(map[schedule.Date]bool, len(req.HolidayDates))
	for _, s := range req.HolidayDates {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "假日日期格式无效: "+s))
			return
		}
		holidayDates[d] = true
	}

	params := schedule.GenerateParams{
		WeekdayMorning:             req.WeekdayMorning,
		WeekdayEvening:             req.WeekdayEvening,
		WeekdayNight:               req.WeekdayNight,
		HolidayMorning:             req.HolidayMorning,
		HolidayEvening:             req.HolidayEvening,
		HolidayNight:               req.HolidayNight,
		WeekendAsHoliday:           req.WeekendAsHoliday,
		HolidayDates:               holidayDates,
		Overwrite:                  req.Overwrite,
		TrimOverstaffToOff:         req.TrimOverstaffToOff,
		PreferClusteredWork:        req.PreferClusteredWork,
		PreferSameShiftWithinBlock: req.PreferSameShiftWithinBlock,
		MaxConsecutiveWorkDays:     req.MaxConsecutiveWorkDays,
		MinRestDaysPer7:            req.MinRestDaysPer7,
	}

	if err := repository.NewSeedRepository(h.db).EnsureDefaultShiftTypes(r.Context(), orgID); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "初始化班别失败"))
		return
	}

	repo := repository.NewEngineRepository(h.db, orgID)
	scheduler := schedule.NewScheduler(repo)

	var result schedule.GenerateResult
	lockErr := h.db.WithOrgLock(r.Context(), orgID, func(ctx context.Context) error {
		var genErr error
		result, genErr = scheduler.Generate(ctx, month, params)
		return genErr
	})
	if lockErr != nil {
		respondError(w, asAppError(lockErr, errors.CodeInternal, "排班生成失败"))
		return
	}

	warnings := result.Warnings
	if params.MaxConsecutiveWorkDays <= 0 {
		warnings = append([]string{"max_consecutive_work_days 为 0：个人连续上班上限也为 0 的员工不会被排任何工作班。"}, warnings...)
	}

	respondJSON(w, http.StatusOK, GenerateResponse{
		OK:       true,
		Created:  result.Created,
		Deleted:  result.Deleted,
		Warnings: warnings,
	})
}

// FillOffRequest 补班请求：是否只处理在职员工
type FillOffRequest struct {
	ActiveOnly bool `json:"active_only"`
}

// FillOffResponse 补班响应
type FillOffResponse struct {
	OK       bool     `json:"ok"`
	Created  int      `json:"created"`
	Warnings []string `json:"warnings"`
}

// FillOff 把当月仍未排班的员工/日期补上休假班别。
func (h *ScheduleHandler) FillOff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	orgID, month, appErr := h.parseOrgAndMonth(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	req := FillOffRequest{ActiveOnly: true}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
			return
		}
	}

	if err := repository.NewSeedRepository(h.db).EnsureDefaultShiftTypes(r.Context(), orgID); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "初始化班别失败"))
		return
	}

	repo := repository.NewEngineRepository(h.db, orgID)
	filler := schedule.NewFillOff(repo)

	var result schedule.FillOffResult
	lockErr := h.db.WithOrgLock(r.Context(), orgID, func(ctx context.Context) error {
		var fillErr error
		result, fillErr = filler.Run(ctx, month, req.ActiveOnly)
		return fillErr
	})
	if lockErr != nil {
		respondError(w, asAppError(lockErr, errors.CodeInternal, "补班失败"))
		return
	}

	respondJSON(w, http.StatusOK, FillOffResponse{
		OK:       true,
		Created:  result.Created,
		Warnings: result.Warnings,
	})
}

// parseOrgAndMonth 从路径参数 {org_id} 与查询字串 month 解析两个必填参数。
func (h *ScheduleHandler) parseOrgAndMonth(r *http.Request) (uuid.UUID, string, *errors.AppError) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		return uuid.UUID{}, "", appErr
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		return uuid.UUID{}, "", errors.New(errors.CodeInvalidInput, "缺少 month 参数，应为 YYYY-MM")
	}
	if _, _, err := schedule.MonthRange(month); err != nil {
		return uuid.UUID{}, "", errors.BadMonth(month)
	}

	return orgID, month, nil
}
