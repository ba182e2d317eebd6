package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/responsehub/backend/internal/models"
)

// MemoryRepository keeps every entity in process memory. It is used when the
// server runs with STORE_DRIVER=memory and by tests.
//
// Transactions hold a single mutex for their whole duration, which makes them
// serializable, and restore a snapshot of the state when the callback fails.
type MemoryRepository struct {
	mu    *sync.Mutex
	state *memoryState
	inTx  bool
}

type memoryState struct {
	users       map[uint]models.User
	incidents   map[uint]models.Incident
	volunteers  map[uint]models.Volunteer
	assignments map[uint]models.Assignment

	userSeq       uint
	incidentSeq   uint
	volunteerSeq  uint
	assignmentSeq uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		mu: &sync.Mutex{},
		state: &memoryState{
			users:       map[uint]models.User{},
			incidents:   map[uint]models.Incident{},
			volunteers:  map[uint]models.Volunteer{},
			assignments: map[uint]models.Assignment{},
		},
	}
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		users:         make(map[uint]models.User, len(s.users)),
		incidents:     make(map[uint]models.Incident, len(s.incidents)),
		volunteers:    make(map[uint]models.Volunteer, len(s.volunteers)),
		assignments:   make(map[uint]models.Assignment, len(s.assignments)),
		userSeq:       s.userSeq,
		incidentSeq:   s.incidentSeq,
		volunteerSeq:  s.volunteerSeq,
		assignmentSeq: s.assignmentSeq,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.incidents {
		c.incidents[k] = v
	}
	for k, v := range s.volunteers {
		v.Skills = append(v.Skills[:0:0], v.Skills...)
		c.volunteers[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	return c
}

func (r *MemoryRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *MemoryRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.clone()
	if err := fn(&MemoryRepository{mu: r.mu, state: r.state, inTx: true}); err != nil {
		*r.state = *snapshot
		return err
	}
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// relation loaders; callers hold the lock

func (r *MemoryRepository) userRef(id uint) *models.User {
	u, ok := r.state.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (r *MemoryRepository) volunteerWithUser(v models.Volunteer) models.Volunteer {
	v.Skills = append(v.Skills[:0:0], v.Skills...)
	v.User = r.userRef(v.UserID)
	return v
}

func (r *MemoryRepository) incidentWithReporter(i models.Incident) models.Incident {
	i.Reporter = r.userRef(i.ReportedBy)
	i.Assignments = nil
	return i
}

func (r *MemoryRepository) assignmentWithRelations(a models.Assignment) models.Assignment {
	if i, ok := r.state.incidents[a.IncidentID]; ok {
		inc := r.incidentWithReporter(i)
		a.Incident = &inc
	}
	if v, ok := r.state.volunteers[a.VolunteerID]; ok {
		vol := r.volunteerWithUser(v)
		a.Volunteer = &vol
	}
	a.Assigner = r.userRef(a.AssignedBy)
	return a
}

func newest[T any](items []T, created func(T) time.Time, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}

// Users

func (r *MemoryRepository) CreateUser(_ context.Context, user *models.User) error {
	defer r.lock()()

	for _, u := range r.state.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}
	r.state.userSeq++
	now := time.Now()
	user.ID = r.state.userSeq
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	stored.Volunteer = nil
	r.state.users[user.ID] = stored
	return nil
}

func (r *MemoryRepository) GetUser(_ context.Context, id uint) (*models.User, error) {
	defer r.lock()()

	u := r.userRef(id)
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	defer r.lock()()

	for _, u := range r.state.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.lock()()

	for _, u := range r.state.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// Incidents

func (r *MemoryRepository) CreateIncident(_ context.Context, incident *models.Incident) error {
	defer r.lock()()

	if _, ok := r.state.users[incident.ReportedBy]; !ok {
		return ErrNotFound
	}
	if incident.Status == "" {
		incident.Status = models.IncidentReported
	}
	r.state.incidentSeq++
	now := time.Now()
	incident.ID = r.state.incidentSeq
	incident.CreatedAt, incident.UpdatedAt = now, now
	stored := *incident
	stored.Reporter, stored.Assignments = nil, nil
	r.state.incidents[incident.ID] = stored
	return nil
}

func (r *MemoryRepository) GetIncident(_ context.Context, id uint) (*models.Incident, error) {
	defer r.lock()()

	i, ok := r.state.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	inc := r.incidentWithReporter(i)

	var assignments []models.Assignment
	for _, a := range r.state.assignments {
		if a.IncidentID != id {
			continue
		}
		if v, ok := r.state.volunteers[a.VolunteerID]; ok {
			vol := r.volunteerWithUser(v)
			a.Volunteer = &vol
		}
		a.Assigner = r.userRef(a.AssignedBy)
		assignments = append(assignments, a)
	}
	newest(assignments,
		func(a models.Assignment) time.Time { return a.CreatedAt },
		func(a models.Assignment) uint { return a.ID })
	inc.Assignments = assignments
	return &inc, nil
}

func (r *MemoryRepository) GetIncidentForUpdate(_ context.Context, id uint) (*models.Incident, error) {
	defer r.lock()()

	i, ok := r.state.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &i, nil
}

func (r *MemoryRepository) ListIncidents(_ context.Context) ([]models.Incident, error) {
	defer r.lock()()

	incidents := make([]models.Incident, 0, len(r.state.incidents))
	for _, i := range r.state.incidents {
		incidents = append(incidents, r.incidentWithReporter(i))
	}
	newest(incidents,
		func(i models.Incident) time.Time { return i.CreatedAt },
		func(i models.Incident) uint { return i.ID })
	return incidents, nil
}

func (r *MemoryRepository) UpdateIncident(_ context.Context, incident *models.Incident) error {
	defer r.lock()()

	if _, ok := r.state.incidents[incident.ID]; !ok {
		return ErrNotFound
	}
	incident.UpdatedAt = time.Now()
	stored := *incident
	stored.Reporter, stored.Assignments = nil, nil
	r.state.incidents[incident.ID] = stored
	return nil
}

func (r *MemoryRepository) UpdateIncidentStatus(_ context.Context, id uint, status models.IncidentStatus) error {
	defer r.lock()()

	i, ok := r.state.incidents[id]
	if !ok {
		return ErrNotFound
	}
	i.Status = status
	i.UpdatedAt = time.Now()
	r.state.incidents[id] = i
	return nil
}

func (r *MemoryRepository) DeleteIncident(_ context.Context, id uint) error {
	defer r.lock()()

	if _, ok := r.state.incidents[id]; !ok {
		return ErrNotFound
	}
	delete(r.state.incidents, id)
	return nil
}

// Volunteers

func (r *MemoryRepository) CreateVolunteer(_ context.Context, volunteer *models.Volunteer) error {
	defer r.lock()()

	if _, ok := r.state.users[volunteer.UserID]; !ok {
		return ErrNotFound
	}
	for _, v := range r.state.volunteers {
		if v.UserID == volunteer.UserID {
			return ErrDuplicate
		}
	}
	if volunteer.Status == "" {
		volunteer.Status = models.VolunteerAvailable
	}
	if volunteer.Skills == nil {
		volunteer.Skills = []string{}
	}
	r.state.volunteerSeq++
	now := time.Now()
	volunteer.ID = r.state.volunteerSeq
	volunteer.CreatedAt, volunteer.UpdatedAt = now, now
	stored := *volunteer
	stored.User = nil
	stored.Skills = append(stored.Skills[:0:0], stored.Skills...)
	r.state.volunteers[volunteer.ID] = stored
	return nil
}

func (r *MemoryRepository) GetVolunteer(_ context.Context, id uint) (*models.Volunteer, error) {
	defer r.lock()()

	v, ok := r.state.volunteers[id]
	if !ok {
		return nil, ErrNotFound
	}
	vol := r.volunteerWithUser(v)
	return &vol, nil
}

func (r *MemoryRepository) GetVolunteerForUpdate(_ context.Context, id uint) (*models.Volunteer, error) {
	defer r.lock()()

	v, ok := r.state.volunteers[id]
	if !ok {
		return nil, ErrNotFound
	}
	v.Skills = append(v.Skills[:0:0], v.Skills...)
	return &v, nil
}

func (r *MemoryRepository) GetVolunteerByUserID(_ context.Context, userID uint) (*models.Volunteer, error) {
	defer r.lock()()

	for _, v := range r.state.volunteers {
		if v.UserID == userID {
			vol := r.volunteerWithUser(v)
			return &vol, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListVolunteers(_ context.Context, filter VolunteerFilter) ([]models.Volunteer, error) {
	defer r.lock()()

	volunteers := make([]models.Volunteer, 0, len(r.state.volunteers))
	for _, v := range r.state.volunteers {
		if filter.OnlyAssignable && !v.CanBeAssigned() {
			continue
		}
		volunteers = append(volunteers, r.volunteerWithUser(v))
	}
	sort.Slice(volunteers, func(i, j int) bool { return volunteers[i].ID < volunteers[j].ID })
	return volunteers, nil
}

func (r *MemoryRepository) UpdateVolunteer(_ context.Context, volunteer *models.Volunteer) error {
	defer r.lock()()

	if _, ok := r.state.volunteers[volunteer.ID]; !ok {
		return ErrNotFound
	}
	volunteer.UpdatedAt = time.Now()
	stored := *volunteer
	stored.User = nil
	stored.Skills = append(stored.Skills[:0:0], stored.Skills...)
	r.state.volunteers[volunteer.ID] = stored
	return nil
}

func (r *MemoryRepository) UpdateVolunteerStatus(_ context.Context, id uint, status models.VolunteerStatus) error {
	defer r.lock()()

	v, ok := r.state.volunteers[id]
	if !ok {
		return ErrNotFound
	}
	v.Status = status
	v.UpdatedAt = time.Now()
	r.state.volunteers[id] = v
	return nil
}

// Assignments

func (r *MemoryRepository) CreateAssignment(_ context.Context, assignment *models.Assignment) error {
	defer r.lock()()

	if _, ok := r.state.incidents[assignment.IncidentID]; !ok {
		return ErrNotFound
	}
	if _, ok := r.state.volunteers[assignment.VolunteerID]; !ok {
		return ErrNotFound
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentAssigned
	}
	r.state.assignmentSeq++
	now := time.Now()
	assignment.ID = r.state.assignmentSeq
	assignment.CreatedAt, assignment.UpdatedAt = now, now
	stored := *assignment
	stored.Incident, stored.Volunteer, stored.Assigner = nil, nil, nil
	r.state.assignments[assignment.ID] = stored
	return nil
}

func (r *MemoryRepository) GetAssignment(_ context.Context, id uint) (*models.Assignment, error) {
	defer r.lock()()

	a, ok := r.state.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	full := r.assignmentWithRelations(a)
	return &full, nil
}

func (r *MemoryRepository) GetAssignmentForUpdate(_ context.Context, id uint) (*models.Assignment, error) {
	defer r.lock()()

	a, ok := r.state.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) ListAssignments(_ context.Context, filter AssignmentFilter) ([]models.Assignment, error) {
	defer r.lock()()

	assignments := make([]models.Assignment, 0, len(r.state.assignments))
	for _, a := range r.state.assignments {
		if filter.IncidentID != 0 && a.IncidentID != filter.IncidentID {
			continue
		}
		if filter.VolunteerID != 0 && a.VolunteerID != filter.VolunteerID {
			continue
		}
		assignments = append(assignments, r.assignmentWithRelations(a))
	}
	newest(assignments,
		func(a models.Assignment) time.Time { return a.CreatedAt },
		func(a models.Assignment) uint { return a.ID })
	return assignments, nil
}

func (r *MemoryRepository) HasActiveAssignment(_ context.Context, incidentID, volunteerID uint) (bool, error) {
	defer r.lock()()

	for _, a := range r.state.assignments {
		if a.IncidentID == incidentID && a.VolunteerID == volunteerID && a.Status != models.AssignmentDeclined {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) UpdateAssignmentStatus(_ context.Context, id uint, status models.AssignmentStatus) error {
	defer r.lock()()

	a, ok := r.state.assignments[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	r.state.assignments[id] = a
	return nil
}

func (r *MemoryRepository) DeleteAssignment(_ context.Context, id uint) error {
	defer r.lock()()

	if _, ok := r.state.assignments[id]; !ok {
		return ErrNotFound
	}
	delete(r.state.assignments, id)
	return nil
}
