package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mwalimu/darasa/core"
	"github.com/mwalimu/darasa/core/assignment"
)

// NewConfig returns a self-contained config for tests. No env files are
// consulted.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:            false,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Darasa",
		SecretKey:        []byte("secret"),
		DefaultFromEmail: "noreply@test.local",
		Server: core.ServerConfig{
			Port:               "8000",
			JWTExpirationDelta: time.Hour,
			ShutdownTimeout:    time.Second,
		},
		Database: core.DatabaseConfig{
			Engine:     "postgres",
			Name:       "darasa_test",
			Host:       "localhost",
			Port:       "5432",
			DisableTLS: true,
		},
	}
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	id, ownerID, department, typ, subject string,
	year int,
	sections []string,
	createdAt ...time.Time,
) assignment.Assignment {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	asg := assignment.Assignment{
		ID:         id,
		AssignedBy: ownerID,
		Department: department,
		Type:       typ,
		Subject:    subject,
		Message:    "message for " + subject,
		Year:       year,
		Sections:   sections,
		CreatedAt:  tstamp,
		DueAt:      tstamp.Add(72 * time.Hour),
	}
	if err := repo.CreateAssignment(context.Background(), asg); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

// CompletionAdder is implemented by repositories that accept student
// submissions; the staff-facing service itself never writes them.
type CompletionAdder interface {
	AddCompletion(ctx context.Context, department, assignmentID string, c assignment.Completion) error
}

func CreateCompletion(
	t *testing.T,
	repo CompletionAdder,
	department, assignmentID, uid, name, rollNo, section string,
) assignment.Completion {
	t.Helper()

	c := assignment.Completion{
		UID:         uid,
		Name:        name,
		RollNo:      rollNo,
		Section:     section,
		SubmittedAt: time.Now().UTC(),
	}
	if err := repo.AddCompletion(context.Background(), department, assignmentID, c); err != nil {
		t.Fatalf("CreateCompletion() failed: %v", err)
	}
	return c
}
