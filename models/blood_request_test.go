package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestStatusTransitions(t *testing.T) {
	all := []RequestStatus{
		RequestPending, RequestApproved, RequestFulfilled,
		RequestRejected, RequestCancelled,
	}
	allowed := map[RequestStatus][]RequestStatus{
		RequestPending:  {RequestApproved, RequestRejected, RequestCancelled, RequestFulfilled},
		RequestApproved: {RequestFulfilled, RequestCancelled},
	}

	for _, from := range all {
		ok := map[RequestStatus]bool{}
		for _, next := range allowed[from] {
			ok[next] = true
		}
		for _, next := range all {
			require.Equalf(t, ok[next], from.CanTransitionTo(next),
				"%s -> %s", from, next)
		}
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	require.False(t, RequestPending.Terminal())
	require.False(t, RequestApproved.Terminal())
	require.True(t, RequestFulfilled.Terminal())
	require.True(t, RequestRejected.Terminal())
	require.True(t, RequestCancelled.Terminal())

	// Terminal states accept no further transitions.
	for _, s := range []RequestStatus{RequestFulfilled, RequestRejected, RequestCancelled} {
		for _, next := range []RequestStatus{RequestPending, RequestApproved, RequestFulfilled, RequestRejected, RequestCancelled} {
			require.Falsef(t, s.CanTransitionTo(next), "%s -> %s", s, next)
		}
	}
}

func TestRequestVisibility(t *testing.T) {
	requester := "11111111-1111-1111-1111-111111111111"
	target := "22222222-2222-2222-2222-222222222222"
	bystander := "33333333-3333-3333-3333-333333333333"

	targeted := &BloodRequest{RequestingHospitalID: requester, TargetHospitalID: &target}
	require.False(t, targeted.Broadcast())
	require.False(t, targeted.IncomingFor(requester))
	require.True(t, targeted.IncomingFor(target))
	require.False(t, targeted.IncomingFor(bystander))
	require.True(t, targeted.VisibleTo(requester))
	require.True(t, targeted.VisibleTo(target))
	require.False(t, targeted.VisibleTo(bystander))

	broadcast := &BloodRequest{RequestingHospitalID: requester}
	require.True(t, broadcast.Broadcast())
	require.False(t, broadcast.IncomingFor(requester))
	require.True(t, broadcast.IncomingFor(target))
	require.True(t, broadcast.IncomingFor(bystander))
	require.True(t, broadcast.VisibleTo(bystander))
}

func TestRemainingNeed(t *testing.T) {
	r := &BloodRequest{UnitsRequested: 10, UnitsFulfilled: 3}
	require.Equal(t, 7, r.RemainingNeed())

	r.UnitsFulfilled = 10
	require.Equal(t, 0, r.RemainingNeed())

	// Over-fulfilment never goes negative.
	r.UnitsFulfilled = 12
	require.Equal(t, 0, r.RemainingNeed())
}
