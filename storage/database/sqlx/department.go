package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/darasa/core/department"
)

type departmentRepository struct {
	db *sqlx.DB
}

var _ department.Repository = (*departmentRepository)(nil) // interface compliance check

func NewDepartmentRepository(db *sqlx.DB) *departmentRepository {
	return &departmentRepository{db: db}
}

func (repo *departmentRepository) GetDepartment(ctx context.Context, name string) (department.Department, error) {
	const query = `SELECT name, upcoming FROM department WHERE name = $1`

	var dep department.Department
	if err := repo.db.GetContext(ctx, &dep, query, name); err != nil {
		if err == sql.ErrNoRows {
			return department.Department{}, department.ErrNotFound
		}
		return department.Department{}, errors.Wrap(err, "finding department")
	}
	return dep, nil
}

func (repo *departmentRepository) UpdateUpcoming(ctx context.Context, name, message string) (department.Department, error) {
	const query = `UPDATE department SET upcoming = $2 WHERE name = $1 RETURNING name, upcoming`

	var dep department.Department
	if err := repo.db.GetContext(ctx, &dep, query, name, message); err != nil {
		if err == sql.ErrNoRows {
			return department.Department{}, department.ErrNotFound
		}
		return department.Department{}, errors.Wrap(err, "updating department notice")
	}
	return dep, nil
}
