package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/controllers"
	"github.com/kendall-kelly/renovation-quotes-api/middleware"
	"github.com/kendall-kelly/renovation-quotes-api/scheduler"
	"github.com/kendall-kelly/renovation-quotes-api/services"
)

func main() {
	log.Println("Starting Renovation Quotes API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := config.MigrateDatabase(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	services.InitEmailService(cfg)
	if _, err := services.InitEmailTemplates(cfg.DefaultLanguage); err != nil {
		log.Fatalf("Failed to load email templates: %v", err)
	}

	if cfg.AWSS3Bucket != "" {
		storage, err := services.InitS3Service(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		services.InitDocumentService(storage)
	} else {
		log.Println("AWS_S3_BUCKET not set, quote attachments are disabled")
	}

	sweeper := services.NewSiteVisitSweeper(services.NewGormProjectStore(db), cfg.Location())
	sweepScheduler := scheduler.NewScheduler(sweeper, cfg.SweepHour, cfg.Location(), cfg.RequestTimeout)
	sweepScheduler.Start()

	router := newRouter(cfg, middleware.EnsureValidToken(cfg))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server is running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server gracefully ...")
	sweepScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Server Shutdown:", err)
	}
	log.Println("Server exiting")
}

// newRouter wires every route. auth authenticates the caller and is swapped
// for a stub in tests.
func newRouter(cfg *config.Config, auth gin.HandlerFunc) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.POST("/cron/site-visits/complete", middleware.RequireCronSecret(cfg.CronSecret), controllers.CompleteSiteVisits)

		authed := v1.Group("", auth)
		{
			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PUT("/users/me", controllers.UpdateMyProfile)

			authed.POST("/contractors", controllers.RegisterContractor)
			authed.GET("/contractors/me", controllers.GetMyContractorProfile)

			authed.POST("/projects", controllers.CreateProject)
			authed.GET("/projects", controllers.ListMyProjects)
			authed.GET("/projects/:id", controllers.GetProject)
			authed.PUT("/projects/:id", controllers.UpdateProject)
			authed.POST("/projects/:id/cancel", controllers.CancelProject)
			authed.POST("/projects/:id/complete", controllers.CompleteProject)
			authed.GET("/projects/:id/quotes", controllers.ListProjectQuotes)
			authed.POST("/projects/:id/quotes", controllers.SubmitQuote)
			authed.GET("/projects/:id/site-visits", controllers.ListProjectSiteVisits)
			authed.POST("/projects/:id/site-visits", controllers.ApplySiteVisit)

			authed.GET("/contractor/projects", controllers.ListContractorProjects)
			authed.DELETE("/site-visits/:id", controllers.CancelSiteVisit)
			authed.GET("/quotes/:id/attachment", controllers.GetQuoteAttachment)

			authed.POST("/select-contractor", controllers.SelectContractor)

			admin := authed.Group("/admin", middleware.RequireScope("manage:projects"))
			{
				admin.PUT("/projects/:id/status", controllers.UpdateProjectStatus)
			}
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Renovation Quotes API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialized",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
