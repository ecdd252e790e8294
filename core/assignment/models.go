package assignment

import (
	"strings"
	"time"

	"github.com/mwalimu/darasa/core"
)

// Assignment types. The wire codes are kept from the legacy board so
// existing documents stay readable.
const (
	TypeAnnouncement = "ANMT"
	TypeAssignment   = "ASMT"
	TypeNote         = "NOTS"
	TypeUnitTest     = "UNTT"
)

// Attachment kinds.
const (
	AttachmentImage = "img"
	AttachmentPDF   = "pdf"
)

// Sections a cohort may be split into.
var Sections = []string{"A", "B", "C", "D"}

// IsTrackable reports whether assignments of this type carry a due date,
// section targeting and completion tracking. Notes carry none of these.
func IsTrackable(typ string) bool {
	switch typ {
	case TypeAnnouncement, TypeAssignment, TypeUnitTest:
		return true
	}
	return false
}

// Assignment is a staff publication to a student cohort, scoped to a
// department. AttachmentURL and AttachmentKind are both empty or both set.
type Assignment struct {
	ID             string    `json:"id"`
	AssignedBy     string    `json:"assigned_by"`
	Department     string    `json:"department"`
	Type           string    `json:"type"`
	Subject        string    `json:"subject"`
	Message        string    `json:"message"`
	AttachmentURL  string    `json:"attachment_url,omitempty"`
	AttachmentKind string    `json:"attachment_kind,omitempty"`
	Year           int       `json:"year"`
	Sections       []string  `json:"sections"`
	CreatedAt      time.Time `json:"created_at"`
	DueAt          time.Time `json:"due_at,omitempty"`
}

func (a Assignment) Trackable() bool     { return IsTrackable(a.Type) }
func (a Assignment) HasAttachment() bool { return a.AttachmentURL != "" }

// Completion is a student's submission record against a trackable
// assignment; at most one exists per (assignment, uid). Student
// attributes are denormalized at submission time.
type Completion struct {
	UID         string    `json:"uid"`
	Name        string    `json:"name"`
	RollNo      string    `json:"rollno"`
	Section     string    `json:"section"`
	FileURL     string    `json:"file_url,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewAttachment is the single optional file supplied at creation time.
type NewAttachment struct {
	Kind    string `json:"kind" validate:"required,oneof=img pdf"`
	Content []byte `json:"-" validate:"required"`
}

// NewAssignment contains information needed to publish a new Assignment.
type NewAssignment struct {
	Type       string         `json:"type" validate:"required,oneof=ANMT ASMT NOTS UNTT"`
	Subject    string         `json:"subject" validate:"required"`
	Message    string         `json:"message" validate:"required"`
	Year       int            `json:"year" validate:"required,min=1,max=4"`
	Sections   []string       `json:"sections" validate:"omitempty,unique,dive,oneof=A B C D"`
	DueAt      time.Time      `json:"due_at"`
	Attachment *NewAttachment `json:"-"`
}

// Validate cleans the request and checks both the static field rules and
// the per-type rules: trackable types require at least one section and a
// future due date. It runs before any side effect.
func (na *NewAssignment) Validate() error {
	na.Type = core.CleanString(na.Type)
	na.Subject = core.CleanString(na.Subject)
	na.Message = core.CleanString(na.Message)
	na.Sections = normalizeSections(na.Sections)

	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if na.Attachment != nil {
		if err := core.Validate.Struct(na.Attachment); err != nil {
			return err
		}
	}

	var flds []core.FieldError
	if IsTrackable(na.Type) {
		if len(na.Sections) == 0 {
			flds = append(flds, core.FieldError{Field: "sections", Error: "at least one section is required"})
		}
		if na.DueAt.IsZero() {
			flds = append(flds, core.FieldError{Field: "due_at", Error: "this field is required"})
		} else if !na.DueAt.After(nowFunc()) {
			flds = append(flds, core.FieldError{Field: "due_at", Error: "must be in the future"})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// normalizeSections dedupes and orders the selected sections so the stored
// value is a canonical set rather than whatever order they were toggled in.
func normalizeSections(sections []string) []string {
	if len(sections) == 0 {
		return sections
	}
	seen := make(map[string]bool, len(sections))
	out := make([]string, 0, len(sections))
	for _, known := range Sections {
		for _, s := range sections {
			s = strings.ToUpper(core.CleanString(s))
			if s == known && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	// keep unknown values so validation can reject them
	for _, s := range sections {
		s = strings.ToUpper(core.CleanString(s))
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
