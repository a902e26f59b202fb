// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/paiban/pkg/model"
)

// AssignmentRepository 排班结果仓储：一笔纪录对应某员工某天的班别。
type AssignmentRepository struct {
	db DB
}

// NewAssignmentRepository 创建排班结果仓储
func NewAssignmentRepository(db DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create 新增一笔排班纪录
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO assignments (org_id, employee_id, day, shift_type_id, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, a.OrgID, a.EmployeeID, a.Day, a.ShiftTypeID, a.Note, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("创建排班纪录失败: %w", err)
	}
	return nil
}

// Update 更新一笔排班纪录（目前仅固定排班超额改休时使用）
func (r *AssignmentRepository) Update(ctx context.Context, a *model.Assignment) error {
	a.UpdatedAt = time.Now()
	query := `UPDATE assignments SET shift_type_id = $2, note = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, a.ID, a.ShiftTypeID, a.Note, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("更新排班纪录失败: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("排班纪录不存在")
	}
	return nil
}

// Delete 删除一笔排班纪录
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM assignments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("删除排班纪录失败: %w", err)
	}
	return nil
}

// ListInRange 依组织与闭区间 [start, end] 回传既有排班
func (r *AssignmentRepository) ListInRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]*model.Assignment, error) {
	query := `
		SELECT id, org_id, employee_id, day, shift_type_id, note, created_at, updated_at
		FROM assignments
		WHERE org_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day ASC, employee_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("查询排班纪录失败: %w", err)
	}
	defer rows.Close()

	var out []*model.Assignment
	for rows.Next() {
		a := &model.Assignment{}
		if err := rows.Scan(&a.ID, &a.OrgID, &a.EmployeeID, &a.Day, &a.ShiftTypeID, &a.Note, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("扫描排班纪录失败: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// ListByEmployee 回传单一员工在 [start, end] 区间内的排班（手动调整删除当天指派时使用）
func (r *AssignmentRepository) ListByEmployee(ctx context.Context, orgID uuid.UUID, employeeID int64, start, end time.Time) ([]*model.Assignment, error) {
	query := `
		SELECT id, org_id, employee_id, day, shift_type_id, note, created_at, updated_at
		FROM assignments
		WHERE org_id = $1 AND employee_id = $2 AND day >= $3 AND day <= $4
		ORDER BY day ASC
	`
	rows, err := r.db.QueryContext(ctx, query, orgID, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("查询员工排班失败: %w", err)
	}
	defer rows.Close()

	var out []*model.Assignment
	for rows.Next() {
		a := &model.Assignment{}
		if err := rows.Scan(&a.ID, &a.OrgID, &a.EmployeeID, &a.Day, &a.ShiftTypeID, &a.Note, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("扫描排班纪录失败: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// RepointShiftType 把某组织下所有指向 fromID 的排班纪录改指向 toID，
// 用于旧版班别代码合并（seed 阶段）。
func (r *AssignmentRepository) RepointShiftType(ctx context.Context, orgID uuid.UUID, fromID, toID int64) error {
	query := `UPDATE assignments SET shift_type_id = $3 WHERE org_id = $1 AND shift_type_id = $2`
	_, err := r.db.ExecContext(ctx, query, orgID, fromID, toID)
	if err != nil {
		return fmt.Errorf("转移排班纪录班别失败: %w", err)
	}
	return nil
}

// Upsert 手动指派时使用：若 (employee_id, day) 已存在则覆盖班别，否则新增。
func (r *AssignmentRepository) Upsert(ctx context.Context, a *model.Assignment) error {
	now := time.Now()
	a.UpdatedAt = now

	query := `
		INSERT INTO assignments (org_id, employee_id, day, shift_type_id, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (org_id, employee_id, day) DO UPDATE
		SET shift_type_id = EXCLUDED.shift_type_id, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, a.OrgID, a.EmployeeID, a.Day, a.ShiftTypeID, a.Note, now, now).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("写入排班纪录失败: %w", err)
	}
	return nil
}
