package models

// RequestStatus is the raw lifecycle status persisted on a quote request
type RequestStatus string

const (
	RequestPending            RequestStatus = "pending"
	RequestApproved           RequestStatus = "approved"
	RequestSiteVisitPending   RequestStatus = "site-visit-pending"
	RequestSiteVisitCompleted RequestStatus = "site-visit-completed"
	RequestBidding            RequestStatus = "bidding"
	RequestBiddingClosed      RequestStatus = "bidding-closed"
	RequestQuoteSubmitted     RequestStatus = "quote-submitted" // legacy value, never written
	RequestCompleted          RequestStatus = "completed"
	RequestCancelled          RequestStatus = "cancelled"
)

// AllRequestStatuses lists every raw status in lifecycle order
var AllRequestStatuses = []RequestStatus{
	RequestPending,
	RequestApproved,
	RequestSiteVisitPending,
	RequestSiteVisitCompleted,
	RequestBidding,
	RequestBiddingClosed,
	RequestQuoteSubmitted,
	RequestCompleted,
	RequestCancelled,
}

// requestTransitions is the lifecycle state machine for quote requests
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:            {RequestApproved, RequestCancelled},
	RequestApproved:           {RequestSiteVisitPending, RequestBidding, RequestCancelled},
	RequestSiteVisitPending:   {RequestSiteVisitCompleted, RequestCancelled},
	RequestSiteVisitCompleted: {RequestBidding, RequestCancelled},
	RequestBidding:            {RequestBiddingClosed, RequestCancelled},
	RequestQuoteSubmitted:     {RequestBiddingClosed, RequestCancelled},
	RequestBiddingClosed:      {RequestCompleted},
}

// Valid reports whether s is a known raw status
func (s RequestStatus) Valid() bool {
	for _, known := range AllRequestStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s RequestStatus) IsTerminal() bool {
	return len(requestTransitions[s]) == 0
}

// ParseRequestStatus converts a string into a RequestStatus
func ParseRequestStatus(value string) (RequestStatus, bool) {
	status := RequestStatus(value)
	return status, status.Valid()
}

// ProjectStatus is the contractor-facing view of a quote request.
// It is never persisted; see services.DeriveProjectStatus.
type ProjectStatus string

const (
	ProjectPending            ProjectStatus = "pending"
	ProjectApproved           ProjectStatus = "approved"
	ProjectSiteVisitApplied   ProjectStatus = "site-visit-applied"
	ProjectSiteVisitCompleted ProjectStatus = "site-visit-completed"
	ProjectQuoted             ProjectStatus = "quoted"
	ProjectSelected           ProjectStatus = "selected"
	ProjectNotSelected        ProjectStatus = "not-selected"
	ProjectCompleted          ProjectStatus = "completed"
	ProjectCancelled          ProjectStatus = "cancelled"
)

// AllProjectStatuses lists every derived status
var AllProjectStatuses = []ProjectStatus{
	ProjectPending,
	ProjectApproved,
	ProjectSiteVisitApplied,
	ProjectSiteVisitCompleted,
	ProjectQuoted,
	ProjectSelected,
	ProjectNotSelected,
	ProjectCompleted,
	ProjectCancelled,
}

// QuoteStatus is the status of a contractor's bid
type QuoteStatus string

const (
	QuoteSubmitted QuoteStatus = "submitted"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRejected  QuoteStatus = "rejected"
)

// SiteVisitStatus is the status of a site visit application
type SiteVisitStatus string

const (
	SiteVisitPending   SiteVisitStatus = "pending"
	SiteVisitCompleted SiteVisitStatus = "completed"
)

// ContractorStatus controls whether a contractor can take part in bidding
type ContractorStatus string

const (
	ContractorActive   ContractorStatus = "active"
	ContractorInactive ContractorStatus = "inactive"
)

// Role is the account role carried on a user
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleContractor Role = "contractor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleContractor, RoleAdmin:
		return true
	default:
		return false
	}
}
