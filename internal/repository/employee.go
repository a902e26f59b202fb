// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/paiban/pkg/model"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create 创建员工，依资料库自增序列分配 ID
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	query := `
		INSERT INTO employees (
			org_id, name, active, color, max_work_days_per_month,
			max_consecutive_work_days, can_work_night, night_only,
			special_requirements, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		emp.OrgID, emp.Name, emp.Active, emp.Color, emp.MaxWorkDaysPerMonth,
		emp.MaxConsecutiveWorkDays, emp.CanWorkNight, emp.NightOnly,
		emp.SpecialRequirements, emp.CreatedAt, emp.UpdatedAt,
	).Scan(&emp.ID)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	query := `
		SELECT id, org_id, name, active, color, max_work_days_per_month,
			max_consecutive_work_days, can_work_night, night_only,
			special_requirements, created_at, updated_at
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`

	return scanEmployee(r.db.QueryRowContext(ctx, query, id))
}

// Update 更新员工
func (r *EmployeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	emp.UpdatedAt = time.Now()

	query := `
		UPDATE employees SET
			name = $2, active = $3, color = $4, max_work_days_per_month = $5,
			max_consecutive_work_days = $6, can_work_night = $7, night_only = $8,
			special_requirements = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Active, emp.Color, emp.MaxWorkDaysPerMonth,
		emp.MaxConsecutiveWorkDays, emp.CanWorkNight, emp.NightOnly,
		emp.SpecialRequirements, emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// Delete 软删除员工
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE employees SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// List 查询员工列表
func (r *EmployeeRepository) List(ctx context.Context, filter ListFilter) ([]*model.Employee, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.OrgID != nil {
		conditions = append(conditions, fmt.Sprintf("org_id = $%d", argIndex))
		args = append(args, *filter.OrgID)
		argIndex++
	}

	if filter.Status == "active" {
		conditions = append(conditions, "active = true")
	} else if filter.Status == "inactive" {
		conditions = append(conditions, "active = false")
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("查询总数失败: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "asc"
	}

	query := fmt.Sprintf(`
		SELECT id, org_id, name, active, color, max_work_days_per_month,
			max_consecutive_work_days, can_work_night, night_only,
			special_requirements, created_at, updated_at
		FROM employees
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, orderDir, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询列表失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}

	return employees, total, nil
}

// ListActive 获取组织下所有在职员工，依 ID 升序，与引擎的迭代顺序一致
func (r *EmployeeRepository) ListActive(ctx context.Context, orgID uuid.UUID) ([]*model.Employee, error) {
	query := `
		SELECT id, org_id, name, active, color, max_work_days_per_month,
			max_consecutive_work_days, can_work_night, night_only,
			special_requirements, created_at, updated_at
		FROM employees
		WHERE org_id = $1 AND active = true AND deleted_at IS NULL
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询在职员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// ListAll 获取组织下全部员工（含停用），依 ID 升序
func (r *EmployeeRepository) ListAll(ctx context.Context, orgID uuid.UUID) ([]*model.Employee, error) {
	query := `
		SELECT id, org_id, name, active, color, max_work_days_per_month,
			max_consecutive_work_days, can_work_night, night_only,
			special_requirements, created_at, updated_at
		FROM employees
		WHERE org_id = $1 AND deleted_at IS NULL
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func scanEmployee(row *sql.Row) (*model.Employee, error) {
	emp := &model.Employee{}
	err := row.Scan(
		&emp.ID, &emp.OrgID, &emp.Name, &emp.Active, &emp.Color, &emp.MaxWorkDaysPerMonth,
		&emp.MaxConsecutiveWorkDays, &emp.CanWorkNight, &emp.NightOnly,
		&emp.SpecialRequirements, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}
	return emp, nil
}

func scanEmployeeRow(rows *sql.Rows) (*model.Employee, error) {
	emp := &model.Employee{}
	err := rows.Scan(
		&emp.ID, &emp.OrgID, &emp.Name, &emp.Active, &emp.Color, &emp.MaxWorkDaysPerMonth,
		&emp.MaxConsecutiveWorkDays, &emp.CanWorkNight, &emp.NightOnly,
		&emp.SpecialRequirements, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}
	return emp, nil
}
