package schedule

import "context"

// Repository 是核心引擎与外部资料之间的唯一边界：引擎只透过这组方法
// 读写员工、班别与排班结果，不直接依赖任何资料库或传输框架。
type Repository interface {
	// ListActiveEmployees 依 ID 升序回传在职员工。
	ListActiveEmployees(ctx context.Context) ([]Employee, error)
	// ListAllEmployees 依 ID 升序回传全部员工（BlankFill 的 active_only=false 需要）。
	ListAllEmployees(ctx context.Context) ([]Employee, error)
	// ListShiftTypes 回传全部班别定义。
	ListShiftTypes(ctx context.Context) ([]ShiftType, error)
	// ListAssignmentsIn 回传 [start, end] 闭区间内的既有排班。
	ListAssignmentsIn(ctx context.Context, start, end Date) ([]Assignment, error)

	// InsertAssignment 新增一笔排班纪录，回传写入后的 ID。
	InsertAssignment(ctx context.Context, a Assignment) (int64, error)
	// UpdateAssignment 更新既有排班纪录（用于固定排班超额改休）。
	UpdateAssignment(ctx context.Context, a Assignment) error
	// DeleteAssignment 删除既有排班纪录（用于覆盖模式清空当月）。
	DeleteAssignment(ctx context.Context, id int64) error

	// Commit 提交本次生成过程中的所有变更。实作可以是真正的资料库事务
	// 提交，也可以是空操作（若底层储存本就逐笔提交）。
	Commit(ctx context.Context) error
}
