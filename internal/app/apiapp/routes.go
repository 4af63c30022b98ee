package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	analyticssvc "github.com/TumaeProject/tumae-be/internal/services/analytics"
	answerssvc "github.com/TumaeProject/tumae-be/internal/services/answers"
	matchsvc "github.com/TumaeProject/tumae-be/internal/services/match"
	profilessvc "github.com/TumaeProject/tumae-be/internal/services/profiles"
	ratesvc "github.com/TumaeProject/tumae-be/internal/services/rate"
	"github.com/TumaeProject/tumae-be/internal/transport/http/handlers"
)

type Dependencies struct {
	MatchService     *matchsvc.Service
	AnswersService   *answerssvc.Service
	ProfilesService  *profilessvc.Service
	AnalyticsService *analyticssvc.Service
	RateLimiter      *ratesvc.Limiter
	Logger           *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	matchHandler := handlers.NewMatchHandler(deps.MatchService, deps.RateLimiter, deps.AnalyticsService, deps.Logger)
	answersHandler := handlers.NewAnswersHandler(deps.AnswersService, deps.AnalyticsService, deps.Logger)
	onboardingHandler := handlers.NewOnboardingHandler(deps.ProfilesService)

	identityMW := IdentityMiddleware()

	r.Get("/healthz", healthHandler.Get)

	r.With(identityMW).Get("/match/candidates", matchHandler.Candidates)
	r.With(identityMW).Get("/match/limits", matchHandler.LimitStatus)
	r.With(identityMW).Post("/answers/{id}/accept", answersHandler.Accept)
	r.With(identityMW).Put("/onboarding/attributes", onboardingHandler.ReplaceAttributes)
	r.With(identityMW).Put("/onboarding/price", onboardingHandler.SavePriceRange)
	r.With(identityMW).Get("/profile", onboardingHandler.GetProfile)
}
