package assignment

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/mwalimu/darasa/core"
)

func mockNow(t *testing.T, now time.Time) {
	t.Helper()
	origNow := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = origNow })
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	flds := make(map[string]string)
	switch vErr := err.(type) {
	case validator.ValidationErrors:
		for _, fErr := range vErr {
			flds[fErr.Field()] = fErr.Tag()
		}
	case *core.ValidationError:
		for _, fErr := range vErr.Fields {
			flds[fErr.Field] = fErr.Error
		}
	default:
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	return flds
}

func TestNewAssignment_Validate(t *testing.T) {
	now := time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC)
	mockNow(t, now)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name     string
		na       NewAssignment
		wantFlds []string
	}{
		{
			name: "valid trackable",
			na:   NewAssignment{Type: TypeAssignment, Subject: "Maths", Message: "Do ex. 5", Year: 2, Sections: []string{"A", "B"}, DueAt: future},
		},
		{
			name: "valid note without sections and due date",
			na:   NewAssignment{Type: TypeNote, Subject: "Syllabus", Message: "Attached", Year: 1},
		},
		{
			name:     "missing subject and message",
			na:       NewAssignment{Type: TypeAssignment, Year: 2, Sections: []string{"A"}, DueAt: future},
			wantFlds: []string{"subject", "message"},
		},
		{
			name:     "unknown type",
			na:       NewAssignment{Type: "HOMEWORK", Subject: "Maths", Message: "m", Year: 2, Sections: []string{"A"}, DueAt: future},
			wantFlds: []string{"type"},
		},
		{
			name:     "year out of range",
			na:       NewAssignment{Type: TypeAssignment, Subject: "Maths", Message: "m", Year: 5, Sections: []string{"A"}, DueAt: future},
			wantFlds: []string{"year"},
		},
		{
			name:     "unknown section",
			na:       NewAssignment{Type: TypeAssignment, Subject: "Maths", Message: "m", Year: 2, Sections: []string{"A", "Z"}, DueAt: future},
			wantFlds: []string{"sections[1]"},
		},
		{
			name:     "trackable without sections",
			na:       NewAssignment{Type: TypeUnitTest, Subject: "Physics", Message: "m", Year: 3, DueAt: future},
			wantFlds: []string{"sections"},
		},
		{
			name:     "trackable without due date",
			na:       NewAssignment{Type: TypeAssignment, Subject: "Maths", Message: "m", Year: 2, Sections: []string{"A"}},
			wantFlds: []string{"due_at"},
		},
		{
			name:     "due date in the past",
			na:       NewAssignment{Type: TypeAssignment, Subject: "Maths", Message: "m", Year: 2, Sections: []string{"A"}, DueAt: now.Add(-time.Hour)},
			wantFlds: []string{"due_at"},
		},
		{
			name:     "attachment with unknown kind",
			na:       NewAssignment{Type: TypeNote, Subject: "Syllabus", Message: "m", Year: 1, Attachment: &NewAttachment{Kind: "doc", Content: []byte("x")}},
			wantFlds: []string{"kind"},
		},
		{
			name:     "attachment without content",
			na:       NewAssignment{Type: TypeNote, Subject: "Syllabus", Message: "m", Year: 1, Attachment: &NewAttachment{Kind: AttachmentPDF}},
			wantFlds: []string{"content"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.na.Validate()
			if len(tt.wantFlds) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			flds := fieldErrors(t, err)
			for _, fld := range tt.wantFlds {
				assert.Contains(t, flds, fld)
			}
		})
	}
}

func TestNewAssignment_Validate_normalizesSections(t *testing.T) {
	now := time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC)
	mockNow(t, now)

	na := NewAssignment{
		Type:     TypeAssignment,
		Subject:  "Maths",
		Message:  "m",
		Year:     2,
		Sections: []string{"c", " B", "A", "b"},
		DueAt:    now.Add(time.Hour),
	}
	assert.NoError(t, na.Validate())
	assert.Equal(t, []string{"A", "B", "C"}, na.Sections)
}

func TestIsTrackable(t *testing.T) {
	assert.True(t, IsTrackable(TypeAnnouncement))
	assert.True(t, IsTrackable(TypeAssignment))
	assert.True(t, IsTrackable(TypeUnitTest))
	assert.False(t, IsTrackable(TypeNote))
	assert.False(t, IsTrackable("lol"))
}
