package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Adham-Aroubite/hr-back/internal/auth"
	"github.com/Adham-Aroubite/hr-back/internal/controller/application"
	"github.com/Adham-Aroubite/hr-back/internal/controller/company"
	"github.com/Adham-Aroubite/hr-back/internal/controller/interview"
	"github.com/Adham-Aroubite/hr-back/internal/controller/jobpost"
	"github.com/Adham-Aroubite/hr-back/internal/controller/resume"
	"github.com/Adham-Aroubite/hr-back/internal/middleware"
	"github.com/Adham-Aroubite/hr-back/internal/model"

	// Init swagger doc
	_ "github.com/Adham-Aroubite/hr-back/docs"
)

// maxResumeBodyBytes bounds résumé payloads, extracted raw data can be large
const maxResumeBodyBytes = 10 << 20

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.Config.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())

	lAuth := auth.NewLocalAuthHandler(s.Auth)
	gAuth := auth.NewOauthLoginHandler(s.Auth, auth.NewGoogleOauthConfig(s.Config.Google), auth.GoogleUserInfoEndpoint)
	logout := auth.NewLogoutController(s.Auth.Sessions)

	companies := company.NewCompanyController(s.DB)
	jobs := jobpost.NewJobPostingController(s.DB)
	resumes := resume.NewResumeController(s.DB)
	applications := application.NewApplicationController(s.DB)
	interviews := interview.NewInterviewController(s.DB)

	requireAuth := middleware.RequireAuth(s.Auth)
	hrOnly := middleware.CheckRole(model.RoleHR)
	candidateOnly := middleware.CheckRole(model.RoleCandidate)

	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.RateLimiterMiddleware(s.Config.RateLimit))
			authRoute.POST("/register/", lAuth.LocalRegisterHandler)
			authRoute.POST("/login/", lAuth.LocalLoginHandler)
			authRoute.POST("/google/", gAuth.GoogleLoginHandler)
			authRoute.GET("/google/callback", gAuth.Callback)

			authRoute.POST("/logout/", requireAuth, logout.LogoutHandler)
			authRoute.GET("/me/", requireAuth, auth.MeHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(requireAuth, middleware.RateLimiterMiddleware(s.Config.RateLimit))

			companyRoute := needAuth.Group("/companies")
			{
				companyRoute.GET("/", companies.GetCompanies)
				companyRoute.POST("/", companies.CreateCompany)
				companyRoute.GET("/:id/", companies.GetCompanyByID)
				companyRoute.PUT("/:id/", companies.ReplaceCompany)
				companyRoute.PATCH("/:id/", companies.EditCompany)
				companyRoute.DELETE("/:id/", companies.DeleteCompany)
			}

			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.GET("/", jobs.GetJobPostings)
				jobRoute.GET("/:id/", jobs.GetJobPostingByID)
				jobRoute.GET("/:id/applications/", jobs.GetApplications)
				jobRoute.POST("/", hrOnly, jobs.CreateJobPosting)
				jobRoute.PUT("/:id/", hrOnly, jobs.ReplaceJobPosting)
				jobRoute.PATCH("/:id/", hrOnly, jobs.EditJobPosting)
				jobRoute.DELETE("/:id/", hrOnly, jobs.DeleteJobPosting)
			}

			resumeRoute := needAuth.Group("/resume-data")
			{
				resumeRoute.Use(middleware.SizeLimit(maxResumeBodyBytes))
				resumeRoute.GET("/", resumes.GetResumes)
				resumeRoute.POST("/", candidateOnly, resumes.CreateResume)
				resumeRoute.GET("/:id/", resumes.GetResumeByID)
				resumeRoute.PUT("/:id/", resumes.ReplaceResume)
				resumeRoute.PATCH("/:id/", resumes.EditResume)
				resumeRoute.DELETE("/:id/", resumes.DeleteResume)
			}

			applicationRoute := needAuth.Group("/applications")
			{
				applicationRoute.GET("/", applications.GetApplications)
				applicationRoute.POST("/", candidateOnly, applications.CreateApplication)
				applicationRoute.GET("/:id/", applications.GetApplicationByID)
				applicationRoute.PUT("/:id/", applications.ReplaceApplication)
				applicationRoute.PATCH("/:id/", applications.EditApplication)
				applicationRoute.DELETE("/:id/", applications.DeleteApplication)
			}

			interviewRoute := needAuth.Group("/interviews")
			{
				interviewRoute.GET("/", interviews.GetInterviews)
				interviewRoute.GET("/:id/", interviews.GetInterviewByID)
				interviewRoute.Use(hrOnly)
				interviewRoute.POST("/", interviews.CreateInterview)
				interviewRoute.PUT("/:id/", interviews.ReplaceInterview)
				interviewRoute.PATCH("/:id/", interviews.EditInterview)
				interviewRoute.DELETE("/:id/", interviews.DeleteInterview)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// healthHandler reports database health, 503 when the database is down
func (s *MyServer) healthHandler(c *gin.Context) {
	stats := s.DB.Health()
	if stats["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}
	c.JSON(http.StatusOK, stats)
}
