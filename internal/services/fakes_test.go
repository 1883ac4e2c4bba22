package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classhub/internal/models"
)

// In-memory repository fakes. They mirror the storage contract the services
// rely on: gorm.ErrRecordNotFound for missing rows, copies out so a caller
// mutation is invisible until Update, and non-nil slices from listings.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *memUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) List() ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		users = append(users, &c)
	}
	return users, nil
}

func (r *memUserRepo) ListActiveByRole(role models.UserRole) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*models.User, 0)
	for _, u := range r.users {
		if u.Role == role && u.IsActive {
			c := *u
			users = append(users, &c)
		}
	}
	return users, nil
}

func (r *memUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memSubjectRepo struct {
	mu          sync.Mutex
	subjects    map[uuid.UUID]*models.Subject
	enrollments []*models.SubjectStudent
	users       *memUserRepo
}

func newMemSubjectRepo(users *memUserRepo) *memSubjectRepo {
	return &memSubjectRepo{
		subjects: make(map[uuid.UUID]*models.Subject),
		users:    users,
	}
}

func (r *memSubjectRepo) Create(subject *models.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	c := *subject
	r.subjects[subject.ID] = &c
	return nil
}

func (r *memSubjectRepo) GetByID(id uuid.UUID) (*models.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *s
	return &c, nil
}

func (r *memSubjectRepo) GetByCode(code string) (*models.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subjects {
		if s.Code == code {
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSubjectRepo) List() ([]*models.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subjects := make([]*models.Subject, 0, len(r.subjects))
	for _, s := range r.subjects {
		c := *s
		subjects = append(subjects, &c)
	}
	return subjects, nil
}

func (r *memSubjectRepo) ListByTeacher(teacherID uuid.UUID) ([]*models.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subjects := make([]*models.Subject, 0)
	for _, s := range r.subjects {
		if s.TeacherID != nil && *s.TeacherID == teacherID {
			c := *s
			subjects = append(subjects, &c)
		}
	}
	return subjects, nil
}

func (r *memSubjectRepo) ListByStudent(studentID uuid.UUID) ([]*models.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subjects := make([]*models.Subject, 0)
	for _, e := range r.enrollments {
		if e.StudentID != studentID {
			continue
		}
		if s, ok := r.subjects[e.SubjectID]; ok {
			c := *s
			subjects = append(subjects, &c)
		}
	}
	return subjects, nil
}

func (r *memSubjectRepo) Update(subject *models.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subjects[subject.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *subject
	r.subjects[subject.ID] = &c
	return nil
}

func (r *memSubjectRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subjects, id)
	return nil
}

func (r *memSubjectRepo) AtomicToggleMember(subjectID, studentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.enrollments {
		if e.SubjectID == subjectID && e.StudentID == studentID {
			r.enrollments = append(r.enrollments[:i], r.enrollments[i+1:]...)
			return false, nil
		}
	}
	r.enrollments = append(r.enrollments, &models.SubjectStudent{
		ID:         uuid.New(),
		SubjectID:  subjectID,
		StudentID:  studentID,
		EnrolledAt: time.Now(),
	})
	return true, nil
}

func (r *memSubjectRepo) IsMember(subjectID, studentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enrollments {
		if e.SubjectID == subjectID && e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memSubjectRepo) ListMembers(subjectID uuid.UUID) ([]*models.SubjectStudent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]*models.SubjectStudent, 0)
	for _, e := range r.enrollments {
		if e.SubjectID != subjectID {
			continue
		}
		c := *e
		if r.users != nil {
			if u, err := r.users.GetByID(e.StudentID); err == nil {
				c.Student = *u
			}
		}
		members = append(members, &c)
	}
	return members, nil
}

func (r *memSubjectRepo) ListStudentIDs(subjectID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, 0)
	for _, e := range r.enrollments {
		if e.SubjectID == subjectID {
			ids = append(ids, e.StudentID)
		}
	}
	return ids, nil
}

type memProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: make(map[uuid.UUID]*models.Project)}
}

func (r *memProjectRepo) Create(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	c := *project
	r.projects[project.ID] = &c
	return nil
}

func (r *memProjectRepo) GetByID(id uuid.UUID) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *p
	return &c, nil
}

func (r *memProjectRepo) List() ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	projects := make([]*models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		c := *p
		projects = append(projects, &c)
	}
	return projects, nil
}

func (r *memProjectRepo) ListByCreator(teacherID uuid.UUID) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	projects := make([]*models.Project, 0)
	for _, p := range r.projects {
		if p.CreatedBy == teacherID {
			c := *p
			projects = append(projects, &c)
		}
	}
	return projects, nil
}

func (r *memProjectRepo) ListApprovedBySubject(subjectID uuid.UUID) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	projects := make([]*models.Project, 0)
	for _, p := range r.projects {
		if p.SubjectID == subjectID && p.Status == models.ProjectStatusApproved {
			c := *p
			projects = append(projects, &c)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Deadline.Before(projects[j].Deadline)
	})
	return projects, nil
}

func (r *memProjectRepo) ListApprovedDueBetween(from, to time.Time) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	projects := make([]*models.Project, 0)
	for _, p := range r.projects {
		if p.Status == models.ProjectStatusApproved && p.Deadline.After(from) && !p.Deadline.After(to) {
			c := *p
			projects = append(projects, &c)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Deadline.Before(projects[j].Deadline)
	})
	return projects, nil
}

func (r *memProjectRepo) Update(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *project
	r.projects[project.ID] = &c
	return nil
}

func (r *memProjectRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[uuid.UUID]*models.Submission
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{submissions: make(map[uuid.UUID]*models.Submission)}
}

func (r *memSubmissionRepo) Create(submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	c := *submission
	r.submissions[submission.ID] = &c
	return nil
}

func (r *memSubmissionRepo) GetByID(id uuid.UUID) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *s
	return &c, nil
}

func (r *memSubmissionRepo) GetByProjectAndStudent(projectID, studentID uuid.UUID) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.submissions {
		if s.ProjectID == projectID && s.StudentID == studentID {
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSubmissionRepo) ListByStudent(studentID uuid.UUID) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	submissions := make([]*models.Submission, 0)
	for _, s := range r.submissions {
		if s.StudentID == studentID {
			c := *s
			submissions = append(submissions, &c)
		}
	}
	return submissions, nil
}

func (r *memSubmissionRepo) ListByProject(projectID uuid.UUID) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	submissions := make([]*models.Submission, 0)
	for _, s := range r.submissions {
		if s.ProjectID == projectID {
			c := *s
			submissions = append(submissions, &c)
		}
	}
	return submissions, nil
}

func (r *memSubmissionRepo) ListByStudentInProjects(studentID uuid.UUID, projectIDs []uuid.UUID) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	submissions := make([]*models.Submission, 0)
	if len(projectIDs) == 0 {
		return submissions, nil
	}
	wanted := make(map[uuid.UUID]bool, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = true
	}
	for _, s := range r.submissions {
		if s.StudentID == studentID && wanted[s.ProjectID] {
			c := *s
			submissions = append(submissions, &c)
		}
	}
	return submissions, nil
}

func (r *memSubmissionRepo) Update(submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *submission
	r.submissions[submission.ID] = &c
	return nil
}

func (r *memSubmissionRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.submissions, id)
	return nil
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
	failWith      error
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make([]*models.Notification, 0)}
}

func (r *memNotificationRepo) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	c := *notification
	r.notifications = append(r.notifications, &c)
	return nil
}

func (r *memNotificationRepo) CreateBatch(notifications []*models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	for _, n := range notifications {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		c := *n
		r.notifications = append(r.notifications, &c)
	}
	return nil
}

func (r *memNotificationRepo) ListByRecipient(recipientID uuid.UUID, limit int, unreadOnly bool) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Notification, 0)
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memNotificationRepo) CountUnread(recipientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(id, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) MarkAllRead(recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) DeleteForRecipient(id, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memNotificationRepo) CleanupOld(olderThan time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := make([]*models.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		if n.CreatedAt.Before(olderThan) && n.IsRead {
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return nil
}

type memAnnouncementRepo struct {
	mu            sync.Mutex
	announcements map[uuid.UUID]*models.Announcement
	subjects      *memSubjectRepo
}

func newMemAnnouncementRepo(subjects *memSubjectRepo) *memAnnouncementRepo {
	return &memAnnouncementRepo{
		announcements: make(map[uuid.UUID]*models.Announcement),
		subjects:      subjects,
	}
}

func (r *memAnnouncementRepo) Create(announcement *models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if announcement.ID == uuid.Nil {
		announcement.ID = uuid.New()
	}
	c := *announcement
	r.announcements[announcement.ID] = &c
	return nil
}

func (r *memAnnouncementRepo) GetByID(id uuid.UUID) (*models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.announcements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *a
	return &c, nil
}

func (r *memAnnouncementRepo) ListByAuthor(authorID uuid.UUID) ([]*models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Announcement, 0)
	for _, a := range r.announcements {
		if a.AuthorID == authorID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memAnnouncementRepo) ListForStudent(studentID uuid.UUID) ([]*models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Announcement, 0)
	for _, a := range r.announcements {
		if a.Scope == models.AnnouncementScopeGlobal {
			c := *a
			out = append(out, &c)
			continue
		}
		if a.SubjectID == nil {
			continue
		}
		member, _ := r.subjects.IsMember(*a.SubjectID, studentID)
		if member {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memAnnouncementRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.announcements, id)
	return nil
}

// byKind filters the stored notifications for assertions.
func (r *memNotificationRepo) byKind(kind models.NotificationKind) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Notification, 0)
	for _, n := range r.notifications {
		if n.Kind == kind {
			c := *n
			out = append(out, &c)
		}
	}
	return out
}
