// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/models"
)

func (q *Queries) CreateDepartment(ctx context.Context, code, name string) (int64, error) {
	var id int64
	err := q.queryRow(ctx, `
		INSERT INTO departments (code, name) VALUES (?, ?) RETURNING id
	`, code, name).Scan(&id)
	if db.IsUniqueViolation(err) {
		return 0, fmt.Errorf("%w: department code %q already exists", models.ErrConstraintViolation, code)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert department: %w", err)
	}
	return id, nil
}

func (q *Queries) CreateCourse(ctx context.Context, departmentID int64, code, name string) (int64, error) {
	if _, err := q.DepartmentByID(ctx, departmentID); err != nil {
		return 0, err
	}

	var id int64
	err := q.queryRow(ctx, `
		INSERT INTO courses (department_id, code, name) VALUES (?, ?, ?) RETURNING id
	`, departmentID, code, name).Scan(&id)
	if db.IsUniqueViolation(err) {
		return 0, fmt.Errorf("%w: course code %q already exists", models.ErrConstraintViolation, code)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert course: %w", err)
	}
	return id, nil
}

func (q *Queries) DepartmentByID(ctx context.Context, id int64) (models.Department, error) {
	var d models.Department
	err := q.queryRow(ctx, `
		SELECT id, code, name FROM departments WHERE id = ?
	`, id).Scan(&d.ID, &d.Code, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return d, fmt.Errorf("%w: department %d", models.ErrNotFound, id)
	}
	if err != nil {
		return d, fmt.Errorf("failed to query department: %w", err)
	}
	return d, nil
}

// Departments lists every department ordered by id.
func (q *Queries) Departments(ctx context.Context) ([]models.Department, error) {
	rows, err := q.query(ctx, `SELECT id, code, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// Courses lists every course ordered by id.
func (q *Queries) Courses(ctx context.Context) ([]models.Course, error) {
	rows, err := q.query(ctx, `SELECT id, department_id, code, name FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.DepartmentID, &c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (q *Queries) CourseByID(ctx context.Context, id int64) (models.Course, error) {
	var c models.Course
	err := q.queryRow(ctx, `
		SELECT id, department_id, code, name FROM courses WHERE id = ?
	`, id).Scan(&c.ID, &c.DepartmentID, &c.Code, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("%w: course %d", models.ErrNotFound, id)
	}
	if err != nil {
		return c, fmt.Errorf("failed to query course: %w", err)
	}
	return c, nil
}

func (q *Queries) CourseByCode(ctx context.Context, code string) (models.Course, error) {
	var c models.Course
	err := q.queryRow(ctx, `
		SELECT id, department_id, code, name FROM courses WHERE code = ?
	`, code).Scan(&c.ID, &c.DepartmentID, &c.Code, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("%w: course %q", models.ErrNotFound, code)
	}
	if err != nil {
		return c, fmt.Errorf("failed to query course: %w", err)
	}
	return c, nil
}

// CourseByNameLike returns the first course whose name contains name,
// ignoring case.
func (q *Queries) CourseByNameLike(ctx context.Context, name string) (models.Course, error) {
	var c models.Course
	err := q.queryRow(ctx, `
		SELECT id, department_id, code, name FROM courses
		WHERE LOWER(name) LIKE ?
		ORDER BY id
		LIMIT 1
	`, "%"+strings.ToLower(name)+"%").Scan(&c.ID, &c.DepartmentID, &c.Code, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("%w: course named %q", models.ErrNotFound, name)
	}
	if err != nil {
		return c, fmt.Errorf("failed to query course: %w", err)
	}
	return c, nil
}

// EnsureDepartment returns the department with code, creating it if missing.
func (q *Queries) EnsureDepartment(ctx context.Context, code, name string) (id int64, created bool, err error) {
	err = q.queryRow(ctx, `SELECT id FROM departments WHERE code = ?`, code).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to query department: %w", err)
	}

	id, err = q.CreateDepartment(ctx, code, name)
	return id, err == nil, err
}

// EnsureCourse returns the course with code, creating it under departmentID if missing.
func (q *Queries) EnsureCourse(ctx context.Context, departmentID int64, code, name string) (id int64, created bool, err error) {
	c, err := q.CourseByCode(ctx, code)
	if err == nil {
		return c.ID, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return 0, false, err
	}

	id, err = q.CreateCourse(ctx, departmentID, code, name)
	return id, err == nil, err
}
