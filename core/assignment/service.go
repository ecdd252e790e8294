package assignment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mwalimu/darasa/core"
)

var (
	// errors
	ErrNotFound         = errors.New("assignment not found")
	ErrIDExists         = errors.New("an assignment with this id already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAttachmentUpload = errors.New("unable to upload the attachment")
	ErrAttachmentDelete = errors.New("unable to delete the attachment")
	ErrDeletion         = errors.New("unable to delete this assignment")

	newID   = uuid.NewString // mockable
	nowFunc = time.Now       // mockable
)

// DefaultQueryLimit caps listing queries; no pagination cursor is offered.
const DefaultQueryLimit = 100

type (
	// Repository persists assignment records. It is authorization-agnostic;
	// the Service enforces ownership before every call.
	Repository interface {
		// CreateAssignment persists atomically; ErrIDExists on a duplicate id
		// within the department.
		CreateAssignment(ctx context.Context, asg Assignment) error
		GetAssignment(ctx context.Context, department, id string) (Assignment, error)
		// QueryAssignmentsByOwner returns up to limit records ordered by
		// creation time, most recent first.
		QueryAssignmentsByOwner(ctx context.Context, department, ownerID string, limit int) ([]Assignment, error)
		// DeleteAssignment removes the record only; attachments are the
		// caller's responsibility.
		DeleteAssignment(ctx context.Context, department, id string) error
	}

	// CompletionRepository reads the per-student completion sub-records of an
	// assignment. Writes happen on the student side, outside this service.
	CompletionRepository interface {
		// QueryCompletions returns up to limit records ordered by roll number,
		// ascending.
		QueryCompletions(ctx context.Context, department, assignmentID string, limit int) ([]Completion, error)
	}

	Service struct {
		repo        Repository
		completions CompletionRepository
		attachments *Store
		mailSvc     core.EmailService
		log         core.Logger
		conf        *core.Config
	}
)

func NewService(
	repo Repository,
	completions CompletionRepository,
	attachments *Store,
	mailSvc core.EmailService,
	log core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		repo:        repo,
		completions: completions,
		attachments: attachments,
		mailSvc:     mailSvc,
		log:         log,
		conf:        conf,
	}
}

func (svc *Service) checkStaff(actor core.Actor) error {
	if actor.IsZero() || !actor.IsStaff() {
		return ErrPermissionDenied
	}
	return nil
}

// Create validates and publishes a new assignment on behalf of actor.
// The attachment (if any) is uploaded before the record is written: a
// failed upload leaves no record behind, and a failed record write leaves
// at worst an orphaned, unreferenced blob which is cleaned up best-effort.
func (svc *Service) Create(ctx context.Context, actor core.Actor, na NewAssignment) (Assignment, error) {
	if err := svc.checkStaff(actor); err != nil {
		return Assignment{}, err
	}
	if err := na.Validate(); err != nil {
		return Assignment{}, err
	}

	asg := Assignment{
		ID:         newID(),
		AssignedBy: actor.UID,
		Department: actor.Department,
		Type:       na.Type,
		Subject:    na.Subject,
		Message:    na.Message,
		Year:       na.Year,
		Sections:   na.Sections,
		CreatedAt:  nowFunc().UTC(),
		DueAt:      na.DueAt,
	}

	if na.Attachment != nil {
		url, err := svc.attachments.Upload(ctx, asg.ID, actor.UID, *na.Attachment)
		if err != nil {
			return Assignment{}, errors.Wrap(ErrAttachmentUpload, err.Error())
		}
		asg.AttachmentURL = url
		asg.AttachmentKind = na.Attachment.Kind
	}

	if err := svc.repo.CreateAssignment(ctx, asg); err != nil {
		if asg.HasAttachment() {
			svc.cleanupBlob(ctx, asg)
		}
		if errors.Cause(err) == ErrIDExists {
			return Assignment{}, err
		}
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}

	svc.notifyPublished(asg, actor)
	return asg, nil
}

// cleanupBlob removes the just-uploaded object after a failed record write.
// A missing object is fine; anything else only gets logged, an orphaned
// blob is reclaimable and never user-visible.
func (svc *Service) cleanupBlob(ctx context.Context, asg Assignment) {
	err := svc.attachments.Remove(ctx, asg.ID, asg.AssignedBy, asg.AttachmentKind)
	if err != nil && errors.Cause(err) != core.ErrBlobNotFound && svc.log != nil {
		svc.log.Warn("orphaned attachment blob left behind", errors.Wrap(err, asg.ID))
	}
}

func (svc *Service) notifyPublished(asg Assignment, actor core.Actor) {
	if svc.mailSvc == nil || svc.conf == nil || svc.conf.NotifyEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: svc.conf.NotifyEmail}},
		Subject: fmt.Sprintf("New publication in %s: %s", asg.Department, asg.Subject),
		Body:    fmt.Sprintf("%s published %q for year %d.\n\n%s", actor.Name, asg.Subject, asg.Year, asg.Message),
	})
}

// Get returns the actor's own assignment. Another staff member's record is
// reported as not found rather than denied, to avoid leaking its existence.
func (svc *Service) Get(ctx context.Context, actor core.Actor, id string) (Assignment, error) {
	if err := svc.checkStaff(actor); err != nil {
		return Assignment{}, err
	}
	asg, err := svc.repo.GetAssignment(ctx, actor.Department, id)
	if err != nil {
		return Assignment{}, err
	}
	if asg.AssignedBy != actor.UID {
		return Assignment{}, ErrNotFound
	}
	return asg, nil
}

// QueryOwned lists the actor's assignments, most recent first.
func (svc *Service) QueryOwned(ctx context.Context, actor core.Actor) ([]Assignment, error) {
	if err := svc.checkStaff(actor); err != nil {
		return nil, err
	}
	return svc.repo.QueryAssignmentsByOwner(ctx, actor.Department, actor.UID, DefaultQueryLimit)
}

// Delete removes an assignment the actor owns, blob first: if blob removal
// fails for any reason other than the object already being gone, the record
// is left untouched so it never outlives a failed cleanup pointing at it.
// Completion sub-records are not cascaded; `admin sweepcompletions` reclaims
// them out-of-band.
func (svc *Service) Delete(ctx context.Context, actor core.Actor, id string) error {
	if err := svc.checkStaff(actor); err != nil {
		return err
	}
	asg, err := svc.repo.GetAssignment(ctx, actor.Department, id)
	if err != nil {
		return err
	}
	if asg.AssignedBy != actor.UID {
		return ErrPermissionDenied
	}

	if asg.HasAttachment() {
		err := svc.attachments.Remove(ctx, asg.ID, asg.AssignedBy, asg.AttachmentKind)
		if err != nil && errors.Cause(err) != core.ErrBlobNotFound {
			return errors.Wrap(ErrAttachmentDelete, err.Error())
		}
	}

	if err := svc.repo.DeleteAssignment(ctx, actor.Department, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return err
		}
		// blob is gone or was never there; the stale record delete may be retried
		return errors.Wrap(ErrDeletion, err.Error())
	}
	return nil
}

// Completions lists the submission records of the actor's own assignment,
// ordered by roll number. Non-trackable types have none by definition.
func (svc *Service) Completions(ctx context.Context, actor core.Actor, id string) ([]Completion, error) {
	asg, err := svc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !asg.Trackable() {
		return []Completion{}, nil
	}
	return svc.completions.QueryCompletions(ctx, actor.Department, id, DefaultQueryLimit)
}
