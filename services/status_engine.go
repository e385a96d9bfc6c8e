package services

import (
	"github.com/kendall-kelly/renovation-quotes-api/models"
)

// ContractorActivity holds one contractor's own records on a project.
// Either field may be nil when the contractor has no such record.
type ContractorActivity struct {
	SiteVisit *models.SiteVisitApplication
	Quote     *models.ContractorQuote
}

// DeriveProjectStatus folds a project's raw status and one contractor's
// records into the status that contractor sees. The first matching rule wins:
// a quote dominates any site visit record, a site visit record dominates the
// raw status, and unknown raw statuses map to pending.
func DeriveProjectStatus(raw models.RequestStatus, activity ContractorActivity) models.ProjectStatus {
	if quote := activity.Quote; quote != nil {
		switch quote.Status {
		case models.QuoteAccepted:
			return models.ProjectSelected
		case models.QuoteRejected:
			return models.ProjectNotSelected
		default:
			return models.ProjectQuoted
		}
	}

	if visit := activity.SiteVisit; visit != nil {
		// A cancelled application must not block re-application
		if visit.IsCancelled {
			return models.ProjectPending
		}
		if raw == models.RequestSiteVisitCompleted || raw == models.RequestBidding {
			return models.ProjectSiteVisitCompleted
		}
		return models.ProjectSiteVisitApplied
	}

	switch raw {
	case models.RequestCancelled:
		return models.ProjectCancelled
	case models.RequestCompleted:
		return models.ProjectCompleted
	case models.RequestQuoteSubmitted:
		return models.ProjectQuoted
	case models.RequestApproved, models.RequestSiteVisitPending:
		return models.ProjectApproved
	default:
		return models.ProjectPending
	}
}

// CanApplySiteVisit reports whether a contractor may apply for a site visit
func CanApplySiteVisit(raw models.RequestStatus, activity ContractorActivity) bool {
	if raw != models.RequestApproved && raw != models.RequestSiteVisitPending {
		return false
	}
	if activity.Quote != nil {
		return false
	}
	return activity.SiteVisit == nil || activity.SiteVisit.IsCancelled
}

// IsSiteVisitMissed reports whether the site visit window has closed on a
// project without the contractor holding an active application
func IsSiteVisitMissed(project models.Project, applications []models.SiteVisitApplication, contractorID string) bool {
	if project.Status != models.RequestSiteVisitCompleted && project.Status != models.RequestBidding {
		return false
	}
	for _, app := range applications {
		if app.ProjectID == project.ID && app.ContractorID == contractorID && app.IsActive() {
			return false
		}
	}
	return true
}

// ActivityFor picks contractorID's records on projectID out of the given rows.
// When several applications exist the active one wins, otherwise the most
// recently applied cancelled one is used.
func ActivityFor(projectID, contractorID string, applications []models.SiteVisitApplication, quotes []models.ContractorQuote) ContractorActivity {
	var activity ContractorActivity

	for i := range applications {
		app := &applications[i]
		if app.ProjectID != projectID || app.ContractorID != contractorID {
			continue
		}
		current := activity.SiteVisit
		switch {
		case current == nil:
			activity.SiteVisit = app
		case app.IsActive() && !current.IsActive():
			activity.SiteVisit = app
		case app.IsActive() == current.IsActive() && app.AppliedAt.After(current.AppliedAt):
			activity.SiteVisit = app
		}
	}

	for i := range quotes {
		quote := &quotes[i]
		if quote.ProjectID == projectID && quote.ContractorID == contractorID {
			activity.Quote = quote
			break
		}
	}

	return activity
}

// ContractorView is a project as seen by one contractor
type ContractorView struct {
	Project           models.Project               `json:"project"`
	ContractorStatus  models.ProjectStatus         `json:"contractor_status"`
	CanApplySiteVisit bool                         `json:"can_apply_site_visit"`
	SiteVisitMissed   bool                         `json:"site_visit_missed"`
	SiteVisit         *models.SiteVisitApplication `json:"site_visit,omitempty"`
	Quote             *models.ContractorQuote      `json:"quote,omitempty"`
}

// BuildContractorView derives everything a contractor needs to act on a project
func BuildContractorView(project models.Project, contractorID string, applications []models.SiteVisitApplication, quotes []models.ContractorQuote) ContractorView {
	activity := ActivityFor(project.ID, contractorID, applications, quotes)

	return ContractorView{
		Project:           project,
		ContractorStatus:  DeriveProjectStatus(project.Status, activity),
		CanApplySiteVisit: CanApplySiteVisit(project.Status, activity),
		SiteVisitMissed:   IsSiteVisitMissed(project, applications, contractorID),
		SiteVisit:         activity.SiteVisit,
		Quote:             activity.Quote,
	}
}
