package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

// marshalNullable returns nil for nil pointers so the column stays NULL
// instead of holding the JSON literal "null".
func marshalNullable(v any) ([]byte, error) {
	switch t := v.(type) {
	case *domain.Salary:
		if t == nil {
			return nil, nil
		}
	case *domain.Address:
		if t == nil {
			return nil, nil
		}
	case *domain.EmergencyContact:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func unmarshalNullable(raw []byte, dst any) error {
	if raw == nil {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (r *Repository) CreateEmployee(emp *domain.Employee) error {
	salary, err := marshalNullable(emp.Salary)
	if err != nil {
		return err
	}
	address, err := marshalNullable(emp.Address)
	if err != nil {
		return err
	}
	contact, err := marshalNullable(emp.EmergencyContact)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO employees (first_name, last_name, email, title, department, start_date, status, salary, address, emergency_contact, application_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{emp.FirstName, emp.LastName, emp.Email, emp.Title, emp.Department, emp.StartDate, emp.Status, salary, address, contact, emp.ApplicationID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt, &emp.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	query := `
		SELECT first_name, last_name, email, title, department, start_date, status, salary, address, emergency_contact, application_id, terminated_at, created_at, updated_at, version
		FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	emp := &domain.Employee{
		ID: id,
	}

	var salary, address, contact []byte
	dst := []any{&emp.FirstName, &emp.LastName, &emp.Email, &emp.Title, &emp.Department, &emp.StartDate, &emp.Status, &salary, &address, &contact, &emp.ApplicationID, &emp.TerminatedAt, &emp.CreatedAt, &emp.UpdatedAt, &emp.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := unmarshalNullable(salary, &emp.Salary); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(address, &emp.Address); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(contact, &emp.EmergencyContact); err != nil {
		return nil, err
	}

	return emp, nil
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	query := `
		SELECT id, first_name, last_name, email, title, department, start_date, status, salary, address, emergency_contact, application_id, terminated_at, created_at, updated_at, version
		FROM employees ORDER BY last_name, first_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		emp := &domain.Employee{}
		var salary, address, contact []byte
		dst := []any{&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Title, &emp.Department, &emp.StartDate, &emp.Status, &salary, &address, &contact, &emp.ApplicationID, &emp.TerminatedAt, &emp.CreatedAt, &emp.UpdatedAt, &emp.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := unmarshalNullable(salary, &emp.Salary); err != nil {
			return nil, err
		}
		if err := unmarshalNullable(address, &emp.Address); err != nil {
			return nil, err
		}
		if err := unmarshalNullable(contact, &emp.EmergencyContact); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) UpdateEmployee(emp *domain.Employee) error {
	salary, err := marshalNullable(emp.Salary)
	if err != nil {
		return err
	}
	address, err := marshalNullable(emp.Address)
	if err != nil {
		return err
	}
	contact, err := marshalNullable(emp.EmergencyContact)
	if err != nil {
		return err
	}

	query := `
		UPDATE employees
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			title = $4,
			department = $5,
			start_date = $6,
			status = $7,
			salary = $8,
			address = $9,
			emergency_contact = $10,
			terminated_at = $11,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $12 AND version = $13
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{emp.FirstName, emp.LastName, emp.Email, emp.Title, emp.Department, emp.StartDate, emp.Status, salary, address, contact, emp.TerminatedAt, emp.ID, emp.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&emp.UpdatedAt, &emp.Version); err != nil {
		return err
	}

	return nil
}
