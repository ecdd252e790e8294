package assignment

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/mwalimu/darasa/core"
	dummymail "github.com/mwalimu/darasa/services/email/dummy"
	dummyblob "github.com/mwalimu/darasa/storage/blob/dummy"
)

// fakeRepo is a minimal in-memory Repository for exercising the Service.
type fakeRepo struct {
	mutex      sync.Mutex
	records    map[string]Assignment // department/id
	createErr  error
	deleteErr  error
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]Assignment)}
}

func (r *fakeRepo) key(department, id string) string { return department + "/" + id }

func (r *fakeRepo) CreateAssignment(ctx context.Context, asg Assignment) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	key := r.key(asg.Department, asg.ID)
	if _, ok := r.records[key]; ok {
		return ErrIDExists
	}
	r.records[key] = asg
	return nil
}

func (r *fakeRepo) GetAssignment(ctx context.Context, department, id string) (Assignment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if asg, ok := r.records[r.key(department, id)]; ok {
		return asg, nil
	}
	return Assignment{}, ErrNotFound
}

func (r *fakeRepo) QueryAssignmentsByOwner(ctx context.Context, department, ownerID string, limit int) ([]Assignment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	owned := make([]Assignment, 0)
	for _, asg := range r.records {
		if asg.Department == department && asg.AssignedBy == ownerID {
			owned = append(owned, asg)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	if len(owned) > limit {
		owned = owned[:limit]
	}
	return owned, nil
}

func (r *fakeRepo) DeleteAssignment(ctx context.Context, department, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	key := r.key(department, id)
	if _, ok := r.records[key]; !ok {
		return ErrNotFound
	}
	delete(r.records, key)
	return nil
}

func (r *fakeRepo) len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.records)
}

type fakeCompletions struct {
	completions map[string][]Completion // department/assignmentID
}

var _ CompletionRepository = (*fakeCompletions)(nil)

func (r *fakeCompletions) QueryCompletions(ctx context.Context, department, assignmentID string, limit int) ([]Completion, error) {
	stored := r.completions[department+"/"+assignmentID]
	if len(stored) > limit {
		stored = stored[:limit]
	}
	return stored, nil
}

// trackingBlob counts calls and can be told to fail, on top of a real
// in-memory store.
type trackingBlob struct {
	*dummyblob.Store
	puts, deletes int
	putErr        error
	deleteErr     error
}

func newTrackingBlob() *trackingBlob {
	return &trackingBlob{Store: dummyblob.NewStore()}
}

func (b *trackingBlob) Put(ctx context.Context, key, contentType string, data []byte) error {
	b.puts++
	if b.putErr != nil {
		return b.putErr
	}
	return b.Store.Put(ctx, key, contentType, data)
}

func (b *trackingBlob) Delete(ctx context.Context, key string) error {
	b.deletes++
	if b.deleteErr != nil {
		return b.deleteErr
	}
	return b.Store.Delete(ctx, key)
}

type serviceFixture struct {
	svc         *Service
	repo        *fakeRepo
	completions *fakeCompletions
	blob        *trackingBlob
	mail        *dummymail.Service
	conf        *core.Config
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	origID, origNow := newID, nowFunc
	t.Cleanup(func() { newID, nowFunc = origID, origNow })

	f := &serviceFixture{
		repo:        newFakeRepo(),
		completions: &fakeCompletions{completions: make(map[string][]Completion)},
		blob:        newTrackingBlob(),
		mail:        dummymail.NewService(),
		conf:        &core.Config{AppName: "Darasa", DefaultFromEmail: "noreply@test.local"},
	}
	f.svc = NewService(f.repo, f.completions, NewStore(f.blob), f.mail, nil, f.conf)
	return f
}

var (
	teacher = core.Actor{UID: "t1", Name: "Mary Teacher", Role: core.RoleTeacher, Department: "CS"}
	hod     = core.Actor{UID: "h1", Name: "Head Hod", Role: core.RoleHOD, Department: "CS"}
	student = core.Actor{UID: "s1", Name: "Sam Student", Role: core.RoleStudent, Department: "CS"}
)

func newTrackableAssignment() NewAssignment {
	return NewAssignment{
		Type:     TypeAssignment,
		Subject:  "Maths",
		Message:  "Do exercises 1-5",
		Year:     2,
		Sections: []string{"A", "B"},
		DueAt:    time.Now().Add(72 * time.Hour),
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("permission denied for students and anonymous", func(t *testing.T) {
		f := newServiceFixture(t)
		for _, actor := range []core.Actor{student, {}} {
			_, err := f.svc.Create(ctx, actor, newTrackableAssignment())
			assert.Equal(t, ErrPermissionDenied, errors.Cause(err))
		}
		assert.Zero(t, f.repo.len())
	})

	t.Run("without attachment", func(t *testing.T) {
		f := newServiceFixture(t)
		newID = func() string { return "id-1" }
		now := time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC)
		nowFunc = func() time.Time { return now.Add(-time.Minute) } // keep DueAt in the future

		asg, err := f.svc.Create(ctx, teacher, newTrackableAssignment())
		assert.NoError(t, err)
		assert.Equal(t, "id-1", asg.ID)
		assert.Equal(t, teacher.UID, asg.AssignedBy)
		assert.Equal(t, teacher.Department, asg.Department)
		assert.Empty(t, asg.AttachmentURL)
		assert.Empty(t, asg.AttachmentKind)
		assert.Zero(t, f.blob.puts)
		assert.Zero(t, f.blob.Len())

		stored, err := f.repo.GetAssignment(ctx, "CS", "id-1")
		assert.NoError(t, err)
		assert.Equal(t, asg, stored)
	})

	t.Run("with attachment", func(t *testing.T) {
		f := newServiceFixture(t)
		newID = func() string { return "id-2" }

		content := []byte("%PDF-1.4 fake")
		na := newTrackableAssignment()
		na.Attachment = &NewAttachment{Kind: AttachmentPDF, Content: content}

		asg, err := f.svc.Create(ctx, hod, na)
		assert.NoError(t, err)
		assert.Equal(t, AttachmentPDF, asg.AttachmentKind)
		assert.NotEmpty(t, asg.AttachmentURL)

		fetched, err := f.blob.Fetch(asg.AttachmentURL)
		assert.NoError(t, err)
		assert.Equal(t, content, fetched)
	})

	t.Run("validation failure leaves no trace", func(t *testing.T) {
		f := newServiceFixture(t)
		na := newTrackableAssignment()
		na.Subject = ""
		na.Attachment = &NewAttachment{Kind: AttachmentImage, Content: []byte("png")}

		_, err := f.svc.Create(ctx, teacher, na)
		assert.Error(t, err)
		assert.Zero(t, f.repo.len())
		assert.Zero(t, f.blob.puts)
	})

	t.Run("upload failure leaves no record", func(t *testing.T) {
		f := newServiceFixture(t)
		f.blob.putErr = errors.New("bucket gone")
		na := newTrackableAssignment()
		na.Attachment = &NewAttachment{Kind: AttachmentImage, Content: []byte("png")}

		_, err := f.svc.Create(ctx, teacher, na)
		assert.Equal(t, ErrAttachmentUpload, errors.Cause(err))
		assert.Zero(t, f.repo.len())
	})

	t.Run("record write failure cleans up the blob", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.createErr = errors.New("db down")
		na := newTrackableAssignment()
		na.Attachment = &NewAttachment{Kind: AttachmentPDF, Content: []byte("pdf")}

		_, err := f.svc.Create(ctx, teacher, na)
		assert.Error(t, err)
		assert.NotEqual(t, ErrIDExists, errors.Cause(err))
		assert.Zero(t, f.blob.Len())
	})

	t.Run("duplicate id surfaces as conflict", func(t *testing.T) {
		f := newServiceFixture(t)
		newID = func() string { return "dup" }

		_, err := f.svc.Create(ctx, teacher, newTrackableAssignment())
		assert.NoError(t, err)
		_, err = f.svc.Create(ctx, teacher, newTrackableAssignment())
		assert.Equal(t, ErrIDExists, errors.Cause(err))
	})

	t.Run("publication notice", func(t *testing.T) {
		f := newServiceFixture(t)
		f.conf.NotifyEmail = "hod@test.local"

		_, err := f.svc.Create(ctx, teacher, newTrackableAssignment())
		assert.NoError(t, err)
		if assert.Len(t, f.mail.Sent, 1) {
			assert.Equal(t, "hod@test.local", f.mail.Sent[0].To[0].Address)
			assert.Contains(t, f.mail.Sent[0].Subject, "Maths")
		}
	})

	t.Run("no notice when unconfigured", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.Create(ctx, teacher, newTrackableAssignment())
		assert.NoError(t, err)
		assert.Empty(t, f.mail.Sent)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	newID = func() string { return "mine" }
	asg, err := f.svc.Create(ctx, teacher, newTrackableAssignment())
	assert.NoError(t, err)

	t.Run("owner", func(t *testing.T) {
		got, err := f.svc.Get(ctx, teacher, "mine")
		assert.NoError(t, err)
		assert.Equal(t, asg, got)
	})
	t.Run("other staff sees not found", func(t *testing.T) {
		_, err := f.svc.Get(ctx, hod, "mine")
		assert.Equal(t, ErrNotFound, errors.Cause(err))
	})
	t.Run("missing", func(t *testing.T) {
		_, err := f.svc.Get(ctx, teacher, "nope")
		assert.Equal(t, ErrNotFound, errors.Cause(err))
	})
	t.Run("student denied", func(t *testing.T) {
		_, err := f.svc.Get(ctx, student, "mine")
		assert.Equal(t, ErrPermissionDenied, errors.Cause(err))
	})
}

func TestService_QueryOwned(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	base := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	ids := []string{"a", "b", "c"}
	for i, id := range ids {
		id := id
		newID = func() string { return id }
		nowFunc = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		na := newTrackableAssignment()
		na.DueAt = base.Add(72 * time.Hour)
		_, err := f.svc.Create(ctx, teacher, na)
		assert.NoError(t, err)
	}
	newID = func() string { return "other" }
	nowFunc = time.Now
	_, err := f.svc.Create(ctx, hod, newTrackableAssignment())
	assert.NoError(t, err)

	owned, err := f.svc.QueryOwned(ctx, teacher)
	assert.NoError(t, err)
	if assert.Len(t, owned, 3) {
		// most recent first
		assert.Equal(t, "c", owned[0].ID)
		assert.Equal(t, "b", owned[1].ID)
		assert.Equal(t, "a", owned[2].ID)
	}

	_, err = f.svc.QueryOwned(ctx, student)
	assert.Equal(t, ErrPermissionDenied, errors.Cause(err))
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *serviceFixture, id string, withAttachment bool) Assignment {
		t.Helper()
		newID = func() string { return id }
		na := newTrackableAssignment()
		if withAttachment {
			na.Attachment = &NewAttachment{Kind: AttachmentImage, Content: []byte("png bytes")}
		}
		asg, err := f.svc.Create(ctx, teacher, na)
		assert.NoError(t, err)
		return asg
	}

	t.Run("removes record and blob", func(t *testing.T) {
		f := newServiceFixture(t)
		asg := create(t, f, "del-1", true)
		assert.Equal(t, 1, f.blob.Len())

		assert.NoError(t, f.svc.Delete(ctx, teacher, asg.ID))
		assert.Zero(t, f.repo.len())
		assert.Zero(t, f.blob.Len())
	})

	t.Run("no attachment never touches the store", func(t *testing.T) {
		f := newServiceFixture(t)
		asg := create(t, f, "del-2", false)

		assert.NoError(t, f.svc.Delete(ctx, teacher, asg.ID))
		assert.Zero(t, f.blob.deletes)
		assert.Zero(t, f.repo.len())
	})

	t.Run("blob failure keeps the record", func(t *testing.T) {
		f := newServiceFixture(t)
		asg := create(t, f, "del-3", true)
		f.blob.deleteErr = errors.New("bucket unreachable")

		err := f.svc.Delete(ctx, teacher, asg.ID)
		assert.Equal(t, ErrAttachmentDelete, errors.Cause(err))
		assert.Equal(t, 1, f.repo.len()) // fail closed: record must not outlive a failed cleanup
	})

	t.Run("missing blob is fine", func(t *testing.T) {
		f := newServiceFixture(t)
		asg := create(t, f, "del-4", true)
		// the object vanished out-of-band
		assert.NoError(t, f.blob.Store.Delete(ctx, objectKey(asg.ID, teacher.UID, asg.AttachmentKind)))

		assert.NoError(t, f.svc.Delete(ctx, teacher, asg.ID))
		assert.Zero(t, f.repo.len())
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newServiceFixture(t)
		asg := create(t, f, "del-5", false)

		err := f.svc.Delete(ctx, hod, asg.ID)
		assert.Equal(t, ErrPermissionDenied, errors.Cause(err))
		assert.Equal(t, 1, f.repo.len())
	})

	t.Run("missing record", func(t *testing.T) {
		f := newServiceFixture(t)
		err := f.svc.Delete(ctx, teacher, "nope")
		assert.Equal(t, ErrNotFound, errors.Cause(err))
	})

	t.Run("record delete failure", func(t *testing.T) {
		f := newServiceFixture(t)
		asg := create(t, f, "del-6", false)
		f.repo.deleteErr = errors.New("db down")

		err := f.svc.Delete(ctx, teacher, asg.ID)
		assert.Equal(t, ErrDeletion, errors.Cause(err))
	})
}

func TestService_Completions(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	newID = func() string { return "trk" }
	trackable, err := f.svc.Create(ctx, teacher, newTrackableAssignment())
	assert.NoError(t, err)

	newID = func() string { return "note" }
	note := newTrackableAssignment()
	note.Type = TypeNote
	note.Sections = nil
	note.DueAt = time.Time{}
	_, err = f.svc.Create(ctx, teacher, note)
	assert.NoError(t, err)

	submitted := []Completion{
		{UID: "s1", Name: "Ann", RollNo: "01", Section: "A", SubmittedAt: time.Now().UTC()},
		{UID: "s2", Name: "Ben", RollNo: "02", Section: "B", SubmittedAt: time.Now().UTC()},
	}
	f.completions.completions["CS/trk"] = submitted

	t.Run("trackable", func(t *testing.T) {
		got, err := f.svc.Completions(ctx, teacher, trackable.ID)
		assert.NoError(t, err)
		assert.Equal(t, submitted, got)
	})
	t.Run("note has none by definition", func(t *testing.T) {
		got, err := f.svc.Completions(ctx, teacher, "note")
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
	t.Run("other staff sees not found", func(t *testing.T) {
		_, err := f.svc.Completions(ctx, hod, trackable.ID)
		assert.Equal(t, ErrNotFound, errors.Cause(err))
	})
}
