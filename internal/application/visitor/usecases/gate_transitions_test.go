package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/orris-inc/visitorpass/internal/shared/errors"
)

func approve(t *testing.T, h *harness, requestID string) string {
	t.Helper()
	result, err := h.review.Execute(context.Background(), ReviewVisitorRequestCommand{
		Actor: reviewerA, RequestID: requestID, Decision: "approved",
	})
	require.NoError(t, err)
	return result.ApprovalCode
}

func TestCheckIn_RequiresApproved(t *testing.T) {
	tests := []struct {
		name   string
		status string
		setup  func(t *testing.T, h *harness) string
	}{
		{"pending", "pending", func(t *testing.T, h *harness) string {
			return createPending(t, h, day14).ID
		}},
		{"declined", "declined", func(t *testing.T, h *harness) string {
			created := createPending(t, h, day14)
			_, err := h.review.Execute(context.Background(), ReviewVisitorRequestCommand{
				Actor: reviewerA, RequestID: created.ID, Decision: "declined",
			})
			require.NoError(t, err)
			return created.ID
		}},
		{"expired", "expired", func(t *testing.T, h *harness) string {
			h.clock.Set(day14.AddDate(0, 0, -1))
			created := createPending(t, h, day14.AddDate(0, 0, -1))
			h.clock.Set(day14)
			return created.ID
		}},
		{"checked out", "checked_out", func(t *testing.T, h *harness) string {
			created := createPending(t, h, day14)
			approve(t, h, created.ID)
			_, err := h.checkIn.Execute(context.Background(), CheckInVisitorCommand{Actor: gateUser, RequestID: created.ID})
			require.NoError(t, err)
			_, err = h.checkOut.Execute(context.Background(), CheckOutVisitorCommand{Actor: gateUser, RequestID: created.ID})
			require.NoError(t, err)
			return created.ID
		}},
	}

	for _, tt := range tests {
		for _, code := range []string{"", "VIS123456ABC"} {
			t.Run(tt.name+"/code="+code, func(t *testing.T) {
				h := newHarness()
				requestID := tt.setup(t, h)

				_, err := h.checkIn.Execute(context.Background(), CheckInVisitorCommand{
					Actor: gateUser, RequestID: requestID, ApprovalCode: code,
				})

				assert.True(t, apperrors.IsInvalidStateError(err), "got %v", err)
				assert.Equal(t, tt.status, string(h.repo.status(requestID)))
			})
		}
	}
}

func TestCheckOut_RequiresCheckedIn(t *testing.T) {
	h := newHarness()
	created := createPending(t, h, day14)
	approve(t, h, created.ID)

	_, err := h.checkOut.Execute(context.Background(), CheckOutVisitorCommand{Actor: gateUser, RequestID: created.ID})

	assert.True(t, apperrors.IsInvalidStateError(err))
}

func TestGate_FullVisit(t *testing.T) {
	h := newHarness()
	created := createPending(t, h, day14)
	code := approve(t, h, created.ID)

	found, err := h.lookup.Execute(context.Background(), LookupByApprovalCodeQuery{Actor: gateUser, ApprovalCode: code})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	in, err := h.checkIn.Execute(context.Background(), CheckInVisitorCommand{
		Actor: gateUser, RequestID: created.ID, ApprovalCode: code,
	})
	require.NoError(t, err)
	assert.Equal(t, "checked_in", in.Status)
	assert.NotNil(t, in.CheckedInAt)

	_, err = h.checkIn.Execute(context.Background(), CheckInVisitorCommand{Actor: gateUser, RequestID: created.ID})
	assert.True(t, apperrors.IsInvalidStateError(err))

	out, err := h.checkOut.Execute(context.Background(), CheckOutVisitorCommand{Actor: gateUser, RequestID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "checked_out", out.Status)
	assert.Equal(t, code, out.ApprovalCode)

	_, err = h.checkOut.Execute(context.Background(), CheckOutVisitorCommand{Actor: gateUser, RequestID: created.ID})
	assert.True(t, apperrors.IsInvalidStateError(err))
}

func TestCheckIn_ApprovalCodeMismatch(t *testing.T) {
	h := newHarness()
	created := createPending(t, h, day14)
	approve(t, h, created.ID)

	_, err := h.checkIn.Execute(context.Background(), CheckInVisitorCommand{
		Actor: gateUser, RequestID: created.ID, ApprovalCode: "VIS999999ZZZ",
	})

	assert.True(t, apperrors.IsValidationError(err))
}

func TestGate_RequiresGateCapability(t *testing.T) {
	h := newHarness()
	created := createPending(t, h, day14)
	approve(t, h, created.ID)

	_, err := h.checkIn.Execute(context.Background(), CheckInVisitorCommand{Actor: reviewerA, RequestID: created.ID})
	assert.True(t, apperrors.IsForbiddenError(err))

	_, err = h.checkOut.Execute(context.Background(), CheckOutVisitorCommand{Actor: requester, RequestID: created.ID})
	assert.True(t, apperrors.IsForbiddenError(err))

	_, err = h.lookup.Execute(context.Background(), LookupByApprovalCodeQuery{Actor: reviewerA, ApprovalCode: "VIS"})
	assert.True(t, apperrors.IsForbiddenError(err))
}

func TestLookupByApprovalCode_NormalisesAndReportsMissing(t *testing.T) {
	h := newHarness()
	created := createPending(t, h, day14)
	code := approve(t, h, created.ID)

	found, err := h.lookup.Execute(context.Background(), LookupByApprovalCodeQuery{
		Actor: gateUser, ApprovalCode: "  " + code + " ",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = h.lookup.Execute(context.Background(), LookupByApprovalCodeQuery{Actor: gateUser, ApprovalCode: "VIS000000AAA"})
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = h.lookup.Execute(context.Background(), LookupByApprovalCodeQuery{Actor: gateUser, ApprovalCode: " "})
	assert.True(t, apperrors.IsValidationError(err))
}
