package department

import (
	"context"
	"errors"

	"github.com/mwalimu/darasa/core"
)

var (
	// errors
	ErrNotFound         = errors.New("department not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// DefaultUpcoming is stored when staff clears the notice.
const DefaultUpcoming = "No upcoming event"

// Department is the top-level partition all assignments live under.
// Upcoming is the free-text notice shown on the dashboard.
type Department struct {
	Name     string `json:"name"`
	Upcoming string `json:"upcoming"`
}

type (
	Repository interface {
		GetDepartment(ctx context.Context, name string) (Department, error)
		UpdateUpcoming(ctx context.Context, name, message string) (Department, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the actor's own department record.
func (svc *Service) Get(ctx context.Context, actor core.Actor) (Department, error) {
	if actor.IsZero() {
		return Department{}, ErrPermissionDenied
	}
	return svc.repo.GetDepartment(ctx, actor.Department)
}

// SetUpcoming replaces the department notice; staff only. A cleared
// message falls back to the default text.
func (svc *Service) SetUpcoming(ctx context.Context, actor core.Actor, message string) (Department, error) {
	if actor.IsZero() || !actor.IsStaff() {
		return Department{}, ErrPermissionDenied
	}
	message = core.CleanString(message)
	if message == "" {
		message = DefaultUpcoming
	}
	return svc.repo.UpdateUpcoming(ctx, actor.Department, message)
}
