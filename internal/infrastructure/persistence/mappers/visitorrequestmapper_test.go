package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
)

func TestVisitorRequestMapper_ApprovedRoundTrip(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	r, err := visitor.NewVisitorRequest("vr_map", visitor.Candidate{
		VisitorName:   "Jane Doe",
		VisitorID:     "P1",
		VisitorPhone:  "+14155550100",
		Purpose:       "Audit",
		ItemsBrought:  []string{"Laptop", "Badge"},
		Department:    "Finance",
		RequestedBy:   "usr_alice",
		VisitDuration: vo.VisitDuration{Hours: 3, Days: 1},
		ScheduledDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		ScheduledTime: "14:30",
		Priority:      vo.PriorityHigh,
	}, at)
	require.NoError(t, err)
	require.NoError(t, r.Review("usr_sec", vo.DecisionApproved, "ok", "VIS123456ABC", at.Add(time.Minute)))

	m := NewVisitorRequestMapper()
	model := m.ToModel(r)
	require.NotNil(t, model.ApprovalCode)
	assert.Equal(t, "VIS123456ABC", *model.ApprovalCode)
	assert.Equal(t, "approved", model.Status)

	back, err := m.ToDomain(model)
	require.NoError(t, err)
	assert.Equal(t, r.ItemsBrought(), back.ItemsBrought())
	assert.Equal(t, r.ScheduledDate(), back.ScheduledDate())
	assert.Equal(t, r.VisitDuration(), back.VisitDuration())
	assert.Equal(t, *r.ReviewedAt(), *back.ReviewedAt())
	assert.Equal(t, r.Version(), back.Version())
}

func TestVisitorRequestMapper_PendingHasNullCode(t *testing.T) {
	r, err := visitor.NewVisitorRequest("vr_map", visitor.Candidate{RequestedBy: "usr_alice"}, time.Now())
	require.NoError(t, err)

	model := NewVisitorRequestMapper().ToModel(r)

	assert.Nil(t, model.ApprovalCode)
	assert.Nil(t, model.ReviewedAt)
}

func TestVisitorRequestMapper_RejectsUnknownStatus(t *testing.T) {
	model := NewVisitorRequestMapper().ToModel(mustPending(t))
	model.Status = "archived"

	_, err := NewVisitorRequestMapper().ToDomain(model)

	assert.Error(t, err)
}

func mustPending(t *testing.T) *visitor.VisitorRequest {
	t.Helper()
	r, err := visitor.NewVisitorRequest("vr_map", visitor.Candidate{RequestedBy: "usr_alice"}, time.Now())
	require.NoError(t, err)
	return r
}
