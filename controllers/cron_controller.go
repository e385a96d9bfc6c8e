package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/services"
)

// CompleteSiteVisits handles POST /api/v1/cron/site-visits/complete - runs the
// site visit sweep on demand. Guarded by middleware.RequireCronSecret.
func CompleteSiteVisits(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	location := time.UTC
	if cfg := config.GetConfig(); cfg != nil {
		location = cfg.Location()
	}

	sweeper := services.NewSiteVisitSweeper(services.NewGormProjectStore(config.GetDB()), location)
	count, err := sweeper.Run(ctx, time.Now())
	if err != nil {
		log.Printf("Site visit sweep failed: %v", err)
		respondError(c, http.StatusInternalServerError, "SWEEP_FAILED", "Failed to complete site visits")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"completedCount": count})
}
