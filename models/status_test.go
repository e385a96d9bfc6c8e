package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusTransitions(t *testing.T) {
	tests := []struct {
		from RequestStatus
		to   RequestStatus
		want bool
	}{
		{RequestPending, RequestApproved, true},
		{RequestPending, RequestBidding, false},
		{RequestApproved, RequestSiteVisitPending, true},
		{RequestApproved, RequestBidding, true},
		{RequestSiteVisitPending, RequestSiteVisitCompleted, true},
		{RequestSiteVisitPending, RequestBidding, false},
		{RequestSiteVisitCompleted, RequestBidding, true},
		{RequestBidding, RequestBiddingClosed, true},
		{RequestBidding, RequestCompleted, false},
		{RequestBiddingClosed, RequestCompleted, true},
		{RequestBiddingClosed, RequestCancelled, false},
		{RequestCompleted, RequestCancelled, false},
		{RequestCancelled, RequestPending, false},
		{RequestStatus("archived"), RequestPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.True(t, RequestCompleted.IsTerminal())
	assert.True(t, RequestCancelled.IsTerminal())
	assert.False(t, RequestBidding.IsTerminal())
}

func TestNoTransitionIntoLegacyStatus(t *testing.T) {
	for _, from := range AllRequestStatuses {
		assert.False(t, from.CanTransitionTo(RequestQuoteSubmitted), "%s should not move to quote-submitted", from)
	}
}

func TestParseRequestStatus(t *testing.T) {
	status, ok := ParseRequestStatus("site-visit-pending")
	assert.True(t, ok)
	assert.Equal(t, RequestSiteVisitPending, status)

	_, ok = ParseRequestStatus("site_visit_requested")
	assert.False(t, ok)
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, SpaceApartment.Valid())
	assert.False(t, SpaceType("castle").Valid())
	assert.True(t, ProjectTypeKitchen.Valid())
	assert.False(t, ProjectType("roofing").Valid())
	assert.True(t, Budget10To30M.Valid())
	assert.False(t, Budget("cheap").Valid())
	assert.True(t, TimelineFlexible.Valid())
	assert.False(t, Timeline("yesterday").Valid())
}

func TestProjectHasVisitOn(t *testing.T) {
	day := "2026-10-17"
	other := "2026-10-18"

	assert.True(t, Project{VisitDate: &day}.HasVisitOn(day))
	assert.False(t, Project{VisitDate: &other}.HasVisitOn(day))
	assert.True(t, Project{VisitDates: []string{other, day}}.HasVisitOn(day))
	assert.False(t, Project{}.HasVisitOn(day))
}

func TestProjectHasSelection(t *testing.T) {
	id := "3f1c2b7e-1d2a-4c4b-9a7e-2b1d3c4e5f60"
	empty := ""

	assert.True(t, Project{SelectedContractorID: &id}.HasSelection())
	assert.False(t, Project{SelectedContractorID: &empty}.HasSelection())
	assert.False(t, Project{}.HasSelection())
}
