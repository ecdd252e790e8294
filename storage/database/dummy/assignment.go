package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/mwalimu/darasa/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignments}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := recordKey(asg.Department, asg.ID)
	if _, ok := repo.db.table[key]; ok {
		return assignment.ErrIDExists
	}
	repo.db.table[key] = &asg
	return nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, department, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.table[recordKey(department, id)]; ok {
		return *asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignmentsByOwner(ctx context.Context, department, ownerID string, limit int) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if limit <= 0 {
		limit = assignment.DefaultQueryLimit
	}

	owned := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.table {
		if asg.Department == department && asg.AssignedBy == ownerID {
			owned = append(owned, *asg)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	if len(owned) > limit {
		owned = owned[:limit]
	}
	return owned, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, department, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := recordKey(department, id)
	if _, ok := repo.db.table[key]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.table, key)
	return nil
}

type completionRepository struct {
	db          *completionTable
	assignments *assignmentTable
}

var _ assignment.CompletionRepository = (*completionRepository)(nil) // interface compliance check

func NewCompletionRepository(db *DB) *completionRepository {
	return &completionRepository{db: db.completions, assignments: db.assignments}
}

func (repo *completionRepository) QueryCompletions(ctx context.Context, department, assignmentID string, limit int) ([]assignment.Completion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if limit <= 0 {
		limit = assignment.DefaultQueryLimit
	}

	stored := repo.db.table[recordKey(department, assignmentID)]
	completions := make([]assignment.Completion, len(stored))
	copy(completions, stored)
	sort.Slice(completions, func(i, j int) bool {
		return strings.Compare(completions[i].RollNo, completions[j].RollNo) < 0
	})
	if len(completions) > limit {
		completions = completions[:limit]
	}
	return completions, nil
}

// AddCompletion records a student submission; at most one per (assignment, uid).
// The service layer never writes completions, this backs the student side
// and test fixtures.
func (repo *completionRepository) AddCompletion(ctx context.Context, department, assignmentID string, c assignment.Completion) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := recordKey(department, assignmentID)
	for _, existing := range repo.db.table[key] {
		if existing.UID == c.UID {
			return assignment.ErrIDExists
		}
	}
	repo.db.table[key] = append(repo.db.table[key], c)
	return nil
}

// SweepOrphanCompletions drops completion groups whose parent assignment no
// longer exists and reports how many records went. Admin CLI only.
func (repo *completionRepository) SweepOrphanCompletions(ctx context.Context) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()

	var swept int
	for key, completions := range repo.db.table {
		if _, ok := repo.assignments.table[key]; !ok {
			swept += len(completions)
			delete(repo.db.table, key)
		}
	}
	return swept, nil
}
