package router

import (
	"github.com/learnhub/learnhub-backend/internal/application"
	"github.com/learnhub/learnhub-backend/internal/container"
	pginfra "github.com/learnhub/learnhub-backend/internal/infrastructure/postgres"
	handlers "github.com/learnhub/learnhub-backend/internal/interface/http"
	"github.com/learnhub/learnhub-backend/internal/router/modules"
	"github.com/learnhub/learnhub-backend/pkg/helpers"
)

// InitModules builds repositories, services, and handlers from the container
// singletons and registers every feature module with the router registry.
// Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	jwt := container.GetJWT()

	accountRepo := pginfra.NewAccountRepository(pool)
	courseRepo := pginfra.NewCourseRepository(pool)
	enrollmentRepo := pginfra.NewEnrollmentRepository(pool)
	requestRepo := pginfra.NewInstructorRequestRepository(pool)

	codes := helpers.NewRedisCodeStore(container.GetRedis())

	accountSvc := application.NewAccountService(
		accountRepo,
		requestRepo,
		courseRepo,
		codes,
		container.GetNotifier(),
		jwt,
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
	)

	courseSvc := application.NewCourseService(
		courseRepo,
		accountRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESCoursesIndex,
		logger,
	)

	paymentSvc := application.NewPaymentService(
		enrollmentRepo,
		courseRepo,
		container.GetRazorpay(),
		cfg.RazorpaySecret,
		logger,
	)

	authHandler := handlers.NewAuthHandler(accountSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(accountSvc, logger)
	courseHandler := handlers.NewCourseHandler(courseSvc, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentSvc, logger)
	adminHandler := handlers.NewAdminHandler(accountSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewCourseModule(courseHandler, jwt))
	r.Add(modules.NewPaymentModule(paymentHandler, jwt))
	r.Add(modules.NewAdminModule(adminHandler, jwt))
}
