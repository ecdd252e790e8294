package dummydb

import (
	"context"

	"github.com/mwalimu/darasa/core/department"
)

type departmentRepository struct {
	db *departmentTable
}

var _ department.Repository = (*departmentRepository)(nil) // interface compliance check

func NewDepartmentRepository(db *DB) *departmentRepository {
	return &departmentRepository{db: db.departments}
}

func (repo *departmentRepository) GetDepartment(ctx context.Context, name string) (department.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if dep, ok := repo.db.table[name]; ok {
		return *dep, nil
	}
	return department.Department{}, department.ErrNotFound
}

func (repo *departmentRepository) UpdateUpcoming(ctx context.Context, name, message string) (department.Department, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	dep, ok := repo.db.table[name]
	if !ok {
		return department.Department{}, department.ErrNotFound
	}
	dep.Upcoming = message
	return *dep, nil
}

// SeedDepartment registers a department record; test and dev fixture.
func (repo *departmentRepository) SeedDepartment(ctx context.Context, dep department.Department) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[dep.Name] = &dep
}
