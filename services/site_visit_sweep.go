package services

import (
	"context"
	"log"
	"time"

	"github.com/kendall-kelly/renovation-quotes-api/models"
)

// SiteVisitSweeper moves projects whose visit day has arrived from
// site-visit-pending to site-visit-completed
type SiteVisitSweeper struct {
	store    ProjectStore
	location *time.Location
}

// NewSiteVisitSweeper creates a sweeper that decides "today" in location
func NewSiteVisitSweeper(store ProjectStore, location *time.Location) *SiteVisitSweeper {
	if location == nil {
		location = time.UTC
	}
	return &SiteVisitSweeper{store: store, location: location}
}

// Run completes every site-visit-pending project visited on today's date and
// returns how many projects changed. Running twice on the same day is a no-op.
func (s *SiteVisitSweeper) Run(ctx context.Context, today time.Time) (int, error) {
	day := today.In(s.location).Format(models.VisitDateLayout)

	projects, err := s.store.ListSiteVisitPending(ctx)
	if err != nil {
		return 0, err
	}

	var due []string
	for _, project := range projects {
		if project.HasVisitOn(day) {
			due = append(due, project.ID)
		}
	}

	if len(due) == 0 {
		log.Printf("Site visit sweep for %s: nothing to complete", day)
		return 0, nil
	}

	completed, err := s.store.CompleteSiteVisits(ctx, due, today)
	if err != nil {
		return 0, err
	}

	log.Printf("Site visit sweep for %s: completed %d of %d due projects", day, completed, len(due))
	return int(completed), nil
}
