package model

import (
	"time"

	"github.com/google/uuid"
)

// ShiftType 班别定义：早/晚/夜/O/L 等。代码值在同一组织内唯一。
type ShiftType struct {
	ID        int64      `json:"id" db:"id"`
	OrgID     uuid.UUID  `json:"org_id" db:"org_id"`
	Code      string     `json:"code" db:"code"`
	Name      string     `json:"name" db:"name"`
	StartTime *string    `json:"start_time,omitempty" db:"start_time"`
	EndTime   *string    `json:"end_time,omitempty" db:"end_time"`
	// IsWork 是否算工作班（O/L 不算）
	IsWork    bool       `json:"is_work" db:"is_work"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Assignment 排班结果：同一组织内 (employee_id, day) 唯一。
type Assignment struct {
	ID          int64      `json:"id" db:"id"`
	OrgID       uuid.UUID  `json:"org_id" db:"org_id"`
	EmployeeID  int64      `json:"employee_id" db:"employee_id"`
	Day         time.Time  `json:"day" db:"day"`
	ShiftTypeID int64      `json:"shift_type_id" db:"shift_type_id"`
	Note        *string    `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
