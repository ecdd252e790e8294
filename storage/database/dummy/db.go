package dummydb

import (
	"sync"

	"github.com/mwalimu/darasa/core/assignment"
	"github.com/mwalimu/darasa/core/department"
)

type (
	DB struct {
		assignments *assignmentTable
		completions *completionTable
		departments *departmentTable
	}

	assignmentTable struct {
		sync.RWMutex
		table map[string]*assignment.Assignment // key: department + "/" + id
	}

	completionTable struct {
		sync.RWMutex
		table map[string][]assignment.Completion // key: department + "/" + assignmentID
	}

	departmentTable struct {
		sync.RWMutex
		table map[string]*department.Department
	}
)

func Open() (*DB, error) {
	db := &DB{
		assignments: &assignmentTable{table: make(map[string]*assignment.Assignment)},
		completions: &completionTable{table: make(map[string][]assignment.Completion)},
		departments: &departmentTable{table: make(map[string]*department.Department)},
	}
	return db, nil
}

func recordKey(department, id string) string {
	return department + "/" + id
}
