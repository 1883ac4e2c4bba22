package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classhub/internal/apperrors"
	"classhub/internal/models"
)

type announcementFixture struct {
	users         *memUserRepo
	subjects      *memSubjectRepo
	announcements *memAnnouncementRepo
	notifications *memNotificationRepo
	svc           AnnouncementService

	teacher  *models.User
	subject  *models.Subject
	enrolled *models.User
	outsider *models.User
}

func newAnnouncementFixture(t *testing.T) *announcementFixture {
	t.Helper()

	f := &announcementFixture{
		users:         newMemUserRepo(),
		notifications: newMemNotificationRepo(),
	}
	f.subjects = newMemSubjectRepo(f.users)
	f.announcements = newMemAnnouncementRepo(f.subjects)

	f.teacher = &models.User{ID: uuid.New(), Name: "Teacher", Email: "teacher@test.local", Role: models.RoleTeacher, IsActive: true}
	require.NoError(t, f.users.Create(f.teacher))

	f.subject = &models.Subject{ID: uuid.New(), Name: "History", Code: "HIST101", TeacherID: &f.teacher.ID}
	require.NoError(t, f.subjects.Create(f.subject))

	f.enrolled = &models.User{ID: uuid.New(), Name: "Enrolled", Email: "in@test.local", Role: models.RoleStudent, IsActive: true}
	f.outsider = &models.User{ID: uuid.New(), Name: "Outsider", Email: "out@test.local", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, f.users.Create(f.enrolled))
	require.NoError(t, f.users.Create(f.outsider))
	_, err := f.subjects.AtomicToggleMember(f.subject.ID, f.enrolled.ID)
	require.NoError(t, err)

	notifier := NewNotificationService(f.notifications, newMemProjectRepo(), f.subjects, newMemSubmissionRepo())
	f.svc = NewAnnouncementService(f.announcements, f.subjects, f.users, notifier)
	return f
}

func TestAnnouncementSubjectScopedFanout(t *testing.T) {
	f := newAnnouncementFixture(t)

	a, err := f.svc.Create(CreateAnnouncementInput{
		Title:     "Exam Moved",
		Content:   "The midterm is now on Friday.",
		SubjectID: &f.subject.ID,
	}, f.teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementScopeSubject, a.Scope)

	posted := f.notifications.byKind(models.NotificationAnnouncementPosted)
	require.Len(t, posted, 1, "only the roster is notified")
	assert.Equal(t, f.enrolled.ID, posted[0].RecipientID)
}

func TestAnnouncementGlobalFanout(t *testing.T) {
	f := newAnnouncementFixture(t)

	inactive := &models.User{ID: uuid.New(), Name: "Gone", Email: "gone@test.local", Role: models.RoleStudent, IsActive: false}
	require.NoError(t, f.users.Create(inactive))

	a, err := f.svc.Create(CreateAnnouncementInput{
		Title:   "Holiday",
		Content: "School closed Monday.",
	}, f.teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementScopeGlobal, a.Scope)

	posted := f.notifications.byKind(models.NotificationAnnouncementPosted)
	assert.Len(t, posted, 2, "every active student, never teachers or deactivated accounts")
	for _, n := range posted {
		assert.NotEqual(t, inactive.ID, n.RecipientID)
		assert.NotEqual(t, f.teacher.ID, n.RecipientID)
	}
}

func TestAnnouncementUnknownSubject(t *testing.T) {
	f := newAnnouncementFixture(t)

	unknown := uuid.New()
	_, err := f.svc.Create(CreateAnnouncementInput{
		Title:     "t",
		Content:   "c",
		SubjectID: &unknown,
	}, f.teacher.ID)

	assert.True(t, apperrors.IsNotFound(err))
}

func TestAnnouncementListForStudent(t *testing.T) {
	f := newAnnouncementFixture(t)

	_, err := f.svc.Create(CreateAnnouncementInput{Title: "Global", Content: "c"}, f.teacher.ID)
	require.NoError(t, err)
	_, err = f.svc.Create(CreateAnnouncementInput{Title: "Scoped", Content: "c", SubjectID: &f.subject.ID}, f.teacher.ID)
	require.NoError(t, err)

	forEnrolled, err := f.svc.ListForStudent(f.enrolled.ID)
	require.NoError(t, err)
	assert.Len(t, forEnrolled, 2)

	forOutsider, err := f.svc.ListForStudent(f.outsider.ID)
	require.NoError(t, err)
	require.Len(t, forOutsider, 1)
	assert.Equal(t, "Global", forOutsider[0].Title)
}

func TestAnnouncementDeleteAuthorOnly(t *testing.T) {
	f := newAnnouncementFixture(t)

	a, err := f.svc.Create(CreateAnnouncementInput{Title: "t", Content: "c"}, f.teacher.ID)
	require.NoError(t, err)

	err = f.svc.Delete(a.ID, uuid.New())
	assert.True(t, apperrors.IsPermission(err))

	require.NoError(t, f.svc.Delete(a.ID, f.teacher.ID))

	err = f.svc.Delete(a.ID, f.teacher.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
