// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunban/lunban/pkg/model"
)

// RosterRepository 排班数据仓储
// 加载求解输入（员工、班次模板、轮换班型）并持久化求解结果
type RosterRepository struct {
	db DB
}

// NewRosterRepository 创建排班数据仓储
func NewRosterRepository(db DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// LoadEmployees 加载指定区域的在职员工
func (r *RosterRepository) LoadEmployees(ctx context.Context, region string) ([]*model.Employee, error) {
	query := `
		SELECT id, name, gender, contract, min_hours, max_hours, rest_days,
			preferred_region, preferred_locations, restricted_locations,
			preferred_days, restricted_days, preferred_shift_types, restricted_shift_types,
			skills, rotation
		FROM employees
		WHERE (preferred_region = $1 OR preferred_region = '') AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, region)
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// LoadShiftTemplates 加载指定区域的启用班次模板
func (r *RosterRepository) LoadShiftTemplates(ctx context.Context, region string) ([]*model.ShiftTemplate, error) {
	query := `
		SELECT id, location, region, type, weekday, start_time, end_time,
			break_minutes, headcount, required_gender, required_skills, priority, active
		FROM shift_templates
		WHERE region = $1 AND active = TRUE
		ORDER BY location, weekday, start_time, id
	`

	rows, err := r.db.QueryContext(ctx, query, region)
	if err != nil {
		return nil, fmt.Errorf("查询班次模板失败: %w", err)
	}
	defer rows.Close()

	var templates []*model.ShiftTemplate
	for rows.Next() {
		var t model.ShiftTemplate
		var weekday int
		var skillsJSON []byte

		err := rows.Scan(
			&t.ID, &t.Location, &t.Region, &t.Type, &weekday, &t.StartTime, &t.EndTime,
			&t.BreakMinutes, &t.Headcount, &t.RequiredGender, &skillsJSON, &t.Priority, &t.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("扫描班次模板失败: %w", err)
		}

		t.Weekday = time.Weekday(weekday)
		if len(skillsJSON) > 0 {
			json.Unmarshal(skillsJSON, &t.RequiredSkills)
		}
		templates = append(templates, &t)
	}

	return templates, rows.Err()
}

// LoadRotationPatterns 查询轮换班型匹配出的候选员工
// 实现钉排预处理器的班型查询接口
func (r *RosterRepository) LoadRotationPatterns(ctx context.Context, location string, weekInCycle int, weekday time.Weekday, shiftType model.ShiftType) ([]*model.PatternCandidate, error) {
	query := `
		SELECT employee_id, unavailable
		FROM rotation_patterns
		WHERE location = $1 AND week_in_cycle = $2 AND weekday = $3 AND shift_type = $4
		ORDER BY employee_id
	`

	rows, err := r.db.QueryContext(ctx, query, location, weekInCycle, int(weekday), shiftType)
	if err != nil {
		return nil, fmt.Errorf("查询轮换班型失败: %w", err)
	}
	defer rows.Close()

	var candidates []*model.PatternCandidate
	for rows.Next() {
		var c model.PatternCandidate
		if err := rows.Scan(&c.EmployeeID, &c.Unavailable); err != nil {
			return nil, fmt.Errorf("扫描轮换班型失败: %w", err)
		}
		candidates = append(candidates, &c)
	}

	return candidates, rows.Err()
}

// SaveRoster 持久化排班方案及其分配
func (r *RosterRepository) SaveRoster(ctx context.Context, solution *model.RosterSolution) error {
	now := time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rosters (id, region, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, solution.ID, solution.Region, solution.StartDate, solution.EndDate, now)
	if err != nil {
		return fmt.Errorf("保存排班方案失败: %w", err)
	}

	for _, a := range solution.Assignments {
		var employeeID interface{}
		if a.Employee != nil {
			employeeID = a.Employee.ID
		}

		_, err := r.db.ExecContext(ctx, `
			INSERT INTO roster_assignments (
				id, roster_id, template_id, date, end_date, slot, employee_id, pinned, minutes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, a.ID, solution.ID, a.Instance.Template.ID, a.Instance.Date, a.Instance.EndDate,
			a.Slot, employeeID, a.Pinned, a.Minutes())
		if err != nil {
			return fmt.Errorf("保存排班分配失败: %w", err)
		}
	}

	return nil
}

// scanEmployee 扫描单行员工
func scanEmployee(row Scanner) (*model.Employee, error) {
	var emp model.Employee
	var minHours, maxHours sql.NullInt64
	var prefLocsJSON, restLocsJSON []byte
	var prefDaysJSON, restDaysJSON []byte
	var prefTypesJSON, restTypesJSON []byte
	var skillsJSON, rotationJSON []byte

	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Gender, &emp.Contract, &minHours, &maxHours, &emp.RestDays,
		&emp.PreferredRegion, &prefLocsJSON, &restLocsJSON,
		&prefDaysJSON, &restDaysJSON, &prefTypesJSON, &restTypesJSON,
		&skillsJSON, &rotationJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("扫描员工失败: %w", err)
	}

	if minHours.Valid {
		v := int(minHours.Int64)
		emp.MinHours = &v
	}
	if maxHours.Valid {
		v := int(maxHours.Int64)
		emp.MaxHours = &v
	}

	if len(prefLocsJSON) > 0 {
		json.Unmarshal(prefLocsJSON, &emp.PreferredLocations)
	}
	if len(restLocsJSON) > 0 {
		json.Unmarshal(restLocsJSON, &emp.RestrictedLocations)
	}
	if len(prefDaysJSON) > 0 {
		json.Unmarshal(prefDaysJSON, &emp.PreferredDays)
	}
	if len(restDaysJSON) > 0 {
		json.Unmarshal(restDaysJSON, &emp.RestrictedDays)
	}
	if len(prefTypesJSON) > 0 {
		json.Unmarshal(prefTypesJSON, &emp.PreferredShiftTypes)
	}
	if len(restTypesJSON) > 0 {
		json.Unmarshal(restTypesJSON, &emp.RestrictedShiftTypes)
	}
	if len(skillsJSON) > 0 {
		json.Unmarshal(skillsJSON, &emp.Skills)
	}
	if len(rotationJSON) > 0 {
		json.Unmarshal(rotationJSON, &emp.Rotation)
	}

	return &emp, nil
}
