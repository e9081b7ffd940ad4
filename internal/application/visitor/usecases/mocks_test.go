package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

// memoryRepository honours the conditional-update contract of visitor.Repository.
type memoryRepository struct {
	mu      sync.Mutex
	records map[string]*visitor.VisitorRequest

	// beforeUpdate runs outside the lock before every conditional update.
	beforeUpdate func()
	// takenCodes simulates codes already held by other records.
	takenCodes map[string]bool
	updates    int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		records:    make(map[string]*visitor.VisitorRequest),
		takenCodes: make(map[string]bool),
	}
}

func (m *memoryRepository) Create(ctx context.Context, r *visitor.VisitorRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID()] = r.Clone()
	return nil
}

func (m *memoryRepository) GetByID(ctx context.Context, id string) (*visitor.VisitorRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, visitor.ErrRequestNotFound
	}
	return r.Clone(), nil
}

func (m *memoryRepository) GetByApprovalCode(ctx context.Context, code string) (*visitor.VisitorRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ApprovalCode() == code {
			return r.Clone(), nil
		}
	}
	return nil, visitor.ErrRequestNotFound
}

func (m *memoryRepository) UpdateIfStatus(ctx context.Context, r *visitor.VisitorRequest, expected vo.RequestStatus) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[r.ID()]
	if !ok || stored.Status() != expected {
		return visitor.ErrStatusConflict
	}
	if code := r.ApprovalCode(); code != "" && code != stored.ApprovalCode() {
		if m.takenCodes[code] {
			return visitor.ErrApprovalCodeTaken
		}
		for id, other := range m.records {
			if id != r.ID() && other.ApprovalCode() == code {
				return visitor.ErrApprovalCodeTaken
			}
		}
	}
	m.records[r.ID()] = r.Clone()
	m.updates++
	return nil
}

func (m *memoryRepository) List(ctx context.Context, filter visitor.Filter) ([]*visitor.VisitorRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*visitor.VisitorRequest
	for _, r := range m.records {
		if filter.Status != nil && r.Status() != *filter.Status {
			continue
		}
		if filter.RequestedBy != "" && r.RequestedBy() != filter.RequestedBy {
			continue
		}
		if filter.Department != "" && r.Department() != filter.Department {
			continue
		}
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, int64(len(out)), nil
}

func (m *memoryRepository) ListDuePending(ctx context.Context, dayStart time.Time, limit int) ([]*visitor.VisitorRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*visitor.VisitorRequest
	for _, r := range m.records {
		if r.Status().IsPending() && r.ScheduledDate().Before(dayStart) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepository) status(id string) vo.RequestStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id].Status()
}

type mockRepository struct {
	CreateFunc            func(ctx context.Context, r *visitor.VisitorRequest) error
	GetByIDFunc           func(ctx context.Context, id string) (*visitor.VisitorRequest, error)
	GetByApprovalCodeFunc func(ctx context.Context, code string) (*visitor.VisitorRequest, error)
	UpdateIfStatusFunc    func(ctx context.Context, r *visitor.VisitorRequest, expected vo.RequestStatus) error
	ListFunc              func(ctx context.Context, filter visitor.Filter) ([]*visitor.VisitorRequest, int64, error)
	ListDuePendingFunc    func(ctx context.Context, dayStart time.Time, limit int) ([]*visitor.VisitorRequest, error)
}

func (m *mockRepository) Create(ctx context.Context, r *visitor.VisitorRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*visitor.VisitorRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, visitor.ErrRequestNotFound
}

func (m *mockRepository) GetByApprovalCode(ctx context.Context, code string) (*visitor.VisitorRequest, error) {
	if m.GetByApprovalCodeFunc != nil {
		return m.GetByApprovalCodeFunc(ctx, code)
	}
	return nil, visitor.ErrRequestNotFound
}

func (m *mockRepository) UpdateIfStatus(ctx context.Context, r *visitor.VisitorRequest, expected vo.RequestStatus) error {
	if m.UpdateIfStatusFunc != nil {
		return m.UpdateIfStatusFunc(ctx, r, expected)
	}
	return nil
}

func (m *mockRepository) List(ctx context.Context, filter visitor.Filter) ([]*visitor.VisitorRequest, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockRepository) ListDuePending(ctx context.Context, dayStart time.Time, limit int) ([]*visitor.VisitorRequest, error) {
	if m.ListDuePendingFunc != nil {
		return m.ListDuePendingFunc(ctx, dayStart, limit)
	}
	return nil, nil
}

// roleCapabilities grants capabilities by role, mirroring the default policy.
type roleCapabilities map[string][]visitor.Capability

func defaultCapabilities() roleCapabilities {
	return roleCapabilities{
		"department_user": {visitor.CapabilitySubmit},
		"security":        {visitor.CapabilityReview, visitor.CapabilityReadAll},
		"gate":            {visitor.CapabilityGate, visitor.CapabilityReadAll},
		"admin": {
			visitor.CapabilitySubmit, visitor.CapabilityReview,
			visitor.CapabilityGate, visitor.CapabilityReadAll,
		},
	}
}

func (rc roleCapabilities) Can(ctx context.Context, actor visitor.Actor, capability visitor.Capability) (bool, error) {
	for _, c := range rc[actor.Role] {
		if c == capability {
			return true, nil
		}
	}
	return false, nil
}

type mockAccountDirectory struct {
	IsActiveFunc func(ctx context.Context, userID string) (bool, error)
}

func (m *mockAccountDirectory) IsActive(ctx context.Context, userID string) (bool, error) {
	if m.IsActiveFunc != nil {
		return m.IsActiveFunc(ctx, userID)
	}
	return true, nil
}

// testClock is a settable clock shared by the validator and the lifecycle.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var (
	requester = visitor.Actor{UserID: "usr_alice", Role: "department_user"}
	otherUser = visitor.Actor{UserID: "usr_bob", Role: "department_user"}
	reviewerA = visitor.Actor{UserID: "usr_sec_a", Role: "security"}
	reviewerB = visitor.Actor{UserID: "usr_sec_b", Role: "security"}
	gateUser  = visitor.Actor{UserID: "usr_gate", Role: "gate"}
)

// day14 is 2026-10-14 10:00 UTC.
var day14 = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func candidateFor(scheduled time.Time) visitor.Candidate {
	return visitor.Candidate{
		VisitorName:   "Jane Doe",
		VisitorID:     "P1234567",
		VisitorPhone:  "+14155550100",
		VisitorEmail:  "Jane.Doe@Example.com",
		Purpose:       "Vendor meeting",
		ItemsBrought:  []string{"Laptop"},
		Department:    "Finance",
		VisitDuration: vo.VisitDuration{Hours: 2},
		ScheduledDate: dateOf(scheduled),
		ScheduledTime: "14:30",
	}
}

// harness wires the use cases against a memory repository and a settable clock.
type harness struct {
	repo      *memoryRepository
	clock     *testClock
	accounts  *mockAccountDirectory
	lifecycle *services.Lifecycle

	create   *CreateVisitorRequestUseCase
	review   *ReviewVisitorRequestUseCase
	checkIn  *CheckInVisitorUseCase
	checkOut *CheckOutVisitorUseCase
	get      *GetVisitorRequestUseCase
	list     *ListVisitorRequestsUseCase
	lookup   *LookupByApprovalCodeUseCase
	sweep    *ExpireDueRequestsUseCase
}

func newHarness() *harness {
	h := &harness{
		repo:     newMemoryRepository(),
		clock:    newTestClock(day14),
		accounts: &mockAccountDirectory{},
	}
	log := logger.Nop()
	h.lifecycle = services.NewLifecycle(h.repo, defaultCapabilities(), h.clock.Now, log)

	h.create = NewCreateVisitorRequestUseCase(h.repo, h.accounts, h.lifecycle, visitor.NewValidator(h.clock.Now), log)
	h.review = NewReviewVisitorRequestUseCase(h.lifecycle, nil, 3, log)
	h.checkIn = NewCheckInVisitorUseCase(h.lifecycle, log)
	h.checkOut = NewCheckOutVisitorUseCase(h.lifecycle, log)
	h.get = NewGetVisitorRequestUseCase(h.lifecycle, log)
	h.list = NewListVisitorRequestsUseCase(h.repo, h.lifecycle, log)
	h.lookup = NewLookupByApprovalCodeUseCase(h.repo, h.lifecycle, log)
	h.sweep = NewExpireDueRequestsUseCase(h.repo, h.lifecycle, 2, log)
	return h
}

func candidateForRequester(scheduled time.Time) visitor.Candidate {
	c := candidateFor(scheduled)
	c.RequestedBy = requester.UserID
	return c
}

func visitorActorWithRole(role string) visitor.Actor {
	return visitor.Actor{UserID: "usr_" + role, Role: role}
}
