package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee 员工（按组织隔离，排班 ID 为稳定自增整数，与旧有排班资料相容）。
type Employee struct {
	ID        int64      `json:"id" db:"id"`
	OrgID     uuid.UUID  `json:"org_id" db:"org_id"`
	Name      string     `json:"name" db:"name"`
	Active    bool       `json:"active" db:"active"`
	Color     *string    `json:"color,omitempty" db:"color"`
	// MaxWorkDaysPerMonth 当月最多上班天数，0 表示不限制
	MaxWorkDaysPerMonth int `json:"max_work_days_per_month" db:"max_work_days_per_month"`
	// MaxConsecutiveWorkDays 最多连续上班天数，0 表示使用系统预设
	MaxConsecutiveWorkDays int        `json:"max_consecutive_work_days" db:"max_consecutive_work_days"`
	CanWorkNight           bool       `json:"can_work_night" db:"can_work_night"`
	NightOnly              bool       `json:"night_only" db:"night_only"`
	SpecialRequirements    *string    `json:"special_requirements,omitempty" db:"special_requirements"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt              *time.Time `json:"-" db:"deleted_at"`
}
