// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/paiban/pkg/model"
)

// ShiftTypeRepository 班别定义仓储
type ShiftTypeRepository struct {
	db DB
}

// NewShiftTypeRepository 创建班别仓储
func NewShiftTypeRepository(db DB) *ShiftTypeRepository {
	return &ShiftTypeRepository{db: db}
}

// Create 创建班别
func (r *ShiftTypeRepository) Create(ctx context.Context, st *model.ShiftType) error {
	now := time.Now()
	st.CreatedAt = now
	st.UpdatedAt = now

	query := `
		INSERT INTO shift_types (org_id, code, name, start_time, end_time, is_work, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		st.OrgID, st.Code, st.Name, st.StartTime, st.EndTime, st.IsWork, st.CreatedAt, st.UpdatedAt,
	).Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("创建班别失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取班别
func (r *ShiftTypeRepository) GetByID(ctx context.Context, id int64) (*model.ShiftType, error) {
	query := `
		SELECT id, org_id, code, name, start_time, end_time, is_work, created_at, updated_at
		FROM shift_types
		WHERE id = $1 AND deleted_at IS NULL
	`
	return scanShiftType(r.db.QueryRowContext(ctx, query, id))
}

// GetByCode 根据组织与代码获取班别
func (r *ShiftTypeRepository) GetByCode(ctx context.Context, orgID uuid.UUID, code string) (*model.ShiftType, error) {
	query := `
		SELECT id, org_id, code, name, start_time, end_time, is_work, created_at, updated_at
		FROM shift_types
		WHERE org_id = $1 AND code = $2 AND deleted_at IS NULL
	`
	return scanShiftType(r.db.QueryRowContext(ctx, query, orgID, code))
}

// Update 更新班别
func (r *ShiftTypeRepository) Update(ctx context.Context, st *model.ShiftType) error {
	st.UpdatedAt = time.Now()

	query := `
		UPDATE shift_types SET
			code = $2, name = $3, start_time = $4, end_time = $5, is_work = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, st.ID, st.Code, st.Name, st.StartTime, st.EndTime, st.IsWork, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("更新班别失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班别不存在")
	}

	return nil
}

// Delete 软删除班别
func (r *ShiftTypeRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE shift_types SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除班别失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班别不存在")
	}

	return nil
}

// List 查询组织下全部班别
func (r *ShiftTypeRepository) List(ctx context.Context, orgID uuid.UUID) ([]*model.ShiftType, error) {
	query := `
		SELECT id, org_id, code, name, start_time, end_time, is_work, created_at, updated_at
		FROM shift_types
		WHERE org_id = $1 AND deleted_at IS NULL
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询班别列表失败: %w", err)
	}
	defer rows.Close()

	var out []*model.ShiftType
	for rows.Next() {
		st, err := scanShiftTypeRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func scanShiftType(row *sql.Row) (*model.ShiftType, error) {
	st := &model.ShiftType{}
	err := row.Scan(&st.ID, &st.OrgID, &st.Code, &st.Name, &st.StartTime, &st.EndTime, &st.IsWork, &st.CreatedAt, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描班别数据失败: %w", err)
	}
	return st, nil
}

func scanShiftTypeRow(rows *sql.Rows) (*model.ShiftType, error) {
	st := &model.ShiftType{}
	err := rows.Scan(&st.ID, &st.OrgID, &st.Code, &st.Name, &st.StartTime, &st.EndTime, &st.IsWork, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("扫描班别数据失败: %w", err)
	}
	return st, nil
}
