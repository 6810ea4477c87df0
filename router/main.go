package router

import (
	"log"
	"os"
	"time"

	"github.com/edu-empower/backend/config"
	"github.com/edu-empower/backend/database"
	"github.com/edu-empower/backend/handlers"
	application_handlers "github.com/edu-empower/backend/handlers/application"
	disbursement_handlers "github.com/edu-empower/backend/handlers/disbursement"
	donation_handlers "github.com/edu-empower/backend/handlers/donation"
	fundraiser_handlers "github.com/edu-empower/backend/handlers/fundraiser"
	organization_handlers "github.com/edu-empower/backend/handlers/organization"
	ranking_handlers "github.com/edu-empower/backend/handlers/ranking"
	scholarship_handlers "github.com/edu-empower/backend/handlers/scholarship"
	student_handlers "github.com/edu-empower/backend/handlers/student"
	user_handlers "github.com/edu-empower/backend/handlers/user"
	"github.com/edu-empower/backend/services/payment"
	"github.com/edu-empower/backend/services/storage"
	"github.com/edu-empower/backend/utils"
	"github.com/edu-empower/backend/utils/auth"
	"github.com/edu-empower/backend/utils/cache"
	"github.com/edu-empower/backend/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	verifier := auth.NewTokenVerifier(auth.VerifierConfig{
		Secret: env.JWT_SECRET,
		Issuer: env.JWT_ISSUER,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the scholarship listing cache; the app runs without it
	var redisCache *cache.RedisCache
	if env.REDIS_URL != "" {
		var err error
		redisCache, err = cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Listing cache will be disabled.", err)
			redisCache = nil
		}
	}

	// Object storage for uploaded student documents
	var storageClient *storage.Client
	if env.STORAGE_BUCKET != "" {
		var err error
		storageClient, err = storage.NewClient(storage.Config{
			AccessKey: env.STORAGE_ACCESS_KEY,
			SecretKey: env.STORAGE_SECRET_KEY,
			Bucket:    env.STORAGE_BUCKET,
			Region:    env.STORAGE_REGION,
			Endpoint:  env.STORAGE_ENDPOINT,
			CDNURL:    env.STORAGE_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v. Document uploads will be disabled.", err)
			storageClient = nil
		}
	}

	// Payment-order client for donation checkout
	var paymentClient *payment.Client
	if env.PAYMENT_API_URL != "" {
		paymentClient = payment.NewClient(payment.Config{
			BaseURL: env.PAYMENT_API_URL,
			APIKey:  env.PAYMENT_API_KEY,
		})
	}

	authMiddleware := middleware.NewAuthMiddleware(verifier, db)

	userHandler := user_handlers.NewUserHandler(db)
	studentHandler := student_handlers.NewStudentHandler(db, storageClient)
	organizationHandler := organization_handlers.NewOrganizationHandler(db)
	scholarshipHandler := scholarship_handlers.NewScholarshipHandler(db, redisCache)
	applicationHandler := application_handlers.NewApplicationHandler(db)
	disbursementHandler := disbursement_handlers.NewDisbursementHandler(db)
	fundraiserHandler := fundraiser_handlers.NewFundraiserHandler(db)
	donationHandler := donation_handlers.NewDonationHandler(db, paymentClient)
	rankingHandler := ranking_handlers.NewRankingHandler(db)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Users (sync endpoint called by the frontend after identity-provider sign-in)
	users := api.Group("/users")
	users.Post("/registerorupdate", userHandler.RegisterOrUpdate)
	users.Get("/", authMiddleware.RequireAdmin(), userHandler.ListUsers)
	users.Get("/:id", authMiddleware.Required(), userHandler.GetUser)
	users.Delete("/:id", authMiddleware.RequireAdmin(), userHandler.DeleteUser)

	// Student profiles
	students := api.Group("/students")
	students.Post("/income-extraction", studentHandler.RecordExtractedIncome) // called by the PDF pipeline
	students.Post("/", authMiddleware.Required(), studentHandler.CreateStudent)
	students.Get("/:userId", authMiddleware.Required(), studentHandler.GetStudent)
	students.Put("/:userId/verify", authMiddleware.RequireAdmin(), studentHandler.VerifyStudent)
	students.Put("/:userId", authMiddleware.Required(), studentHandler.UpdateStudent)
	students.Delete("/:userId", authMiddleware.Required(), studentHandler.DeleteStudent)

	// Organization profiles
	organizations := api.Group("/organizations")
	organizations.Get("/", organizationHandler.ListOrganizations)
	organizations.Post("/", authMiddleware.Required(), organizationHandler.CreateOrganization)
	organizations.Get("/:userId", organizationHandler.GetOrganization)
	organizations.Put("/:id", authMiddleware.Required(), organizationHandler.UpdateOrganization)
	organizations.Put("/:id/verify", authMiddleware.RequireAdmin(), organizationHandler.VerifyOrganization)
	organizations.Delete("/:id", authMiddleware.Required(), organizationHandler.DeleteOrganization)

	// Scholarships
	scholarships := api.Group("/scholarships")
	scholarships.Get("/", scholarshipHandler.ListScholarships)
	scholarships.Get("/active", scholarshipHandler.ListActiveScholarships)
	scholarships.Get("/expired", scholarshipHandler.ListExpiredScholarships)
	scholarships.Get("/:id", scholarshipHandler.GetScholarship)
	scholarships.Post("/", authMiddleware.Required(), scholarshipHandler.CreateScholarship)
	scholarships.Put("/:id", authMiddleware.Required(), scholarshipHandler.UpdateScholarship)
	scholarships.Delete("/:id", authMiddleware.Required(), scholarshipHandler.DeleteScholarship)

	// Applications
	applications := api.Group("/applications", authMiddleware.Required())
	applications.Post("/", applicationHandler.CreateApplication)
	applications.Get("/", applicationHandler.ListApplications)
	applications.Get("/student/:studentId", applicationHandler.ListStudentApplications)
	applications.Get("/:id", applicationHandler.GetApplication)
	applications.Patch("/:id/status", applicationHandler.UpdateApplicationStatus)
	applications.Delete("/:id", applicationHandler.DeleteApplication)

	// Disbursements (admin managed)
	disbursements := api.Group("/disbursements", authMiddleware.RequireAdmin())
	disbursements.Post("/", disbursementHandler.CreateDisbursement)
	disbursements.Get("/", disbursementHandler.ListDisbursements)
	disbursements.Get("/student/:studentId", disbursementHandler.ListStudentDisbursements)
	disbursements.Get("/:id", disbursementHandler.GetDisbursement)
	disbursements.Put("/:id", disbursementHandler.UpdateDisbursement)
	disbursements.Delete("/:id", disbursementHandler.DeleteDisbursement)

	// Fundraisers
	fundraisers := api.Group("/fundraisers")
	fundraisers.Get("/", fundraiserHandler.ListFundraisers)
	fundraisers.Get("/:id", fundraiserHandler.GetFundraiser)
	fundraisers.Post("/", authMiddleware.Required(), fundraiserHandler.CreateFundraiser)
	fundraisers.Put("/:id", authMiddleware.Required(), fundraiserHandler.UpdateFundraiser)
	fundraisers.Delete("/:id", authMiddleware.Required(), fundraiserHandler.DeleteFundraiser)

	// Donations
	donations := api.Group("/donations")
	donations.Get("/", donationHandler.ListDonations)
	donations.Get("/fundraiser/:fundraiserId", donationHandler.ListFundraiserDonations)
	donations.Get("/:id", donationHandler.GetDonation)
	donations.Post("/", authMiddleware.Required(), donationHandler.CreateDonation)
	donations.Post("/order", authMiddleware.Required(), donationHandler.CreateOrder)
	donations.Delete("/:id", authMiddleware.RequireAdmin(), donationHandler.DeleteDonation)

	// Rankings (admin managed)
	rankings := api.Group("/rankings", authMiddleware.RequireAdmin())
	rankings.Post("/", rankingHandler.CreateRanking)
	rankings.Get("/", rankingHandler.ListRankings)
	rankings.Get("/scholarship/:scholarshipId", rankingHandler.ListScholarshipRankings)
	rankings.Get("/:id", rankingHandler.GetRanking)
	rankings.Put("/:id", rankingHandler.UpdateRanking)
	rankings.Delete("/:id", rankingHandler.DeleteRanking)
}
