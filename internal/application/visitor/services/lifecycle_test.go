package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	apperrors "github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

type stubRepository struct {
	visitor.Repository
	stored  *visitor.VisitorRequest
	updates []vo.RequestStatus
	// updateErr is returned by the next UpdateIfStatus call.
	updateErr error
	// onConflict replaces stored when updateErr is ErrStatusConflict.
	onConflict *visitor.VisitorRequest
}

func (s *stubRepository) GetByID(ctx context.Context, id string) (*visitor.VisitorRequest, error) {
	if s.stored == nil || s.stored.ID() != id {
		return nil, visitor.ErrRequestNotFound
	}
	return s.stored.Clone(), nil
}

func (s *stubRepository) UpdateIfStatus(ctx context.Context, r *visitor.VisitorRequest, expected vo.RequestStatus) error {
	if err := s.updateErr; err != nil {
		s.updateErr = nil
		if errors.Is(err, visitor.ErrStatusConflict) && s.onConflict != nil {
			s.stored = s.onConflict
		}
		return err
	}
	s.updates = append(s.updates, r.Status())
	s.stored = r.Clone()
	return nil
}

type allowAll struct{}

func (allowAll) Can(context.Context, visitor.Actor, visitor.Capability) (bool, error) { return true, nil }

type denyErr struct{}

func (denyErr) Can(context.Context, visitor.Actor, visitor.Capability) (bool, error) {
	return false, errors.New("enforcer unavailable")
}

var (
	created = time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	now     = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
)

func pendingFor(t *testing.T, scheduled time.Time) *visitor.VisitorRequest {
	t.Helper()
	r, err := visitor.NewVisitorRequest("vr_1", visitor.Candidate{
		VisitorName:   "Jane Doe",
		RequestedBy:   "usr_alice",
		ScheduledDate: scheduled,
		ScheduledTime: "09:30",
	}, created)
	require.NoError(t, err)
	return r
}

func newLifecycle(repo visitor.Repository) *Lifecycle {
	return NewLifecycle(repo, allowAll{}, func() time.Time { return now }, logger.Nop())
}

func TestLifecycle_LoadExpiresPastDue(t *testing.T) {
	repo := &stubRepository{stored: pendingFor(t, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC))}

	r, err := newLifecycle(repo).Load(context.Background(), "vr_1")

	require.NoError(t, err)
	assert.Equal(t, vo.StatusExpired, r.Status())
	assert.Equal(t, []vo.RequestStatus{vo.StatusExpired}, repo.updates)
}

func TestLifecycle_LoadLeavesCurrentRequestsAlone(t *testing.T) {
	repo := &stubRepository{stored: pendingFor(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))}

	r, err := newLifecycle(repo).Load(context.Background(), "vr_1")

	require.NoError(t, err)
	assert.Equal(t, vo.StatusPending, r.Status())
	assert.Empty(t, repo.updates)
}

func TestLifecycle_RefreshRereadsAfterLosingToReviewer(t *testing.T) {
	stale := pendingFor(t, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC))
	declined := stale.Clone()
	require.NoError(t, declined.Review("usr_sec", vo.DecisionDeclined, "", "", created))

	repo := &stubRepository{stored: stale, updateErr: visitor.ErrStatusConflict, onConflict: declined}

	r, err := newLifecycle(repo).Refresh(context.Background(), stale)

	require.NoError(t, err)
	assert.Equal(t, vo.StatusDeclined, r.Status())
}

func TestLifecycle_CommitTranslatesErrors(t *testing.T) {
	scheduled := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		updateErr error
		mutate    func(*visitor.VisitorRequest, time.Time) error
		check     func(t *testing.T, err error)
	}{
		{
			name:   "invalid transition",
			mutate: func(r *visitor.VisitorRequest, at time.Time) error { return r.CheckOut(at) },
			check:  func(t *testing.T, err error) { assert.True(t, apperrors.IsInvalidStateError(err)) },
		},
		{
			name:      "lost race",
			updateErr: visitor.ErrStatusConflict,
			mutate:    func(r *visitor.VisitorRequest, at time.Time) error { return r.Review("usr_sec", vo.DecisionDeclined, "", "", at) },
			check:     func(t *testing.T, err error) { assert.True(t, apperrors.IsConflictError(err)) },
		},
		{
			name:      "code collision passes through",
			updateErr: visitor.ErrApprovalCodeTaken,
			mutate: func(r *visitor.VisitorRequest, at time.Time) error {
				return r.Review("usr_sec", vo.DecisionApproved, "", "VIS000001AAA", at)
			},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, visitor.ErrApprovalCodeTaken) },
		},
		{
			name:      "store failure",
			updateErr: errors.New("deadlock"),
			mutate:    func(r *visitor.VisitorRequest, at time.Time) error { return r.Review("usr_sec", vo.DecisionDeclined, "", "", at) },
			check: func(t *testing.T, err error) {
				appErr := apperrors.GetAppError(err)
				require.NotNil(t, appErr)
				assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			read := pendingFor(t, scheduled)
			repo := &stubRepository{stored: read, updateErr: tt.updateErr}

			_, err := newLifecycle(repo).Commit(context.Background(), read, tt.mutate)

			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, vo.StatusPending, repo.stored.Status())
		})
	}
}

func TestLifecycle_CommitRejectsRequestThatExpiredSinceRead(t *testing.T) {
	read := pendingFor(t, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC))
	repo := &stubRepository{stored: read}

	_, err := newLifecycle(repo).Commit(context.Background(), read, func(r *visitor.VisitorRequest, at time.Time) error {
		return r.Review("usr_sec", vo.DecisionApproved, "", "VIS000001AAA", at)
	})

	assert.True(t, apperrors.IsInvalidStateError(err))
	assert.Equal(t, vo.StatusExpired, repo.stored.Status())
	assert.False(t, repo.stored.HasApprovalCode())
}

func TestLifecycle_AuthorizeFailures(t *testing.T) {
	l := NewLifecycle(&stubRepository{}, denyErr{}, nil, logger.Nop())

	err := l.Authorize(context.Background(), visitor.Actor{UserID: "usr_alice", Role: "security"}, visitor.CapabilityReview)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)

	err = newLifecycle(&stubRepository{}).Authorize(context.Background(), visitor.Actor{}, visitor.CapabilityReview)
	assert.True(t, apperrors.IsForbiddenError(err))
}
