package routes

import (
	"net/http"

	"github.com/fitcircle/fitcircle/internal/app"
	"github.com/fitcircle/fitcircle/internal/handler"
	"github.com/fitcircle/fitcircle/internal/metrics"
	"github.com/fitcircle/fitcircle/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	sessions := handler.NewSessionHandler(app.AuthService)
	groups := handler.NewGroupHandler(app.GroupService, app.MembershipService)
	events := handler.NewEventHandler(app.EventService)
	goals := handler.NewGoalHandler(app.GoalService)
	achievements := handler.NewAchievementHandler(app.AchievementService)
	dashboard := handler.NewDashboardHandler(app.GoalService, app.AchievementService, app.GroupService, app.Gate)

	// Shared by every state-changing route
	writes := middleware.RateLimitWrites(app.Cfg.WriteRateLimit)
	auth := middleware.RequireAuth
	write := func(h http.HandlerFunc) http.HandlerFunc {
		return writes(auth(h))
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/groups", groups.List)
	mux.HandleFunc("GET /api/groups/categories", groups.Categories)

	// Session
	mux.HandleFunc("POST /api/session", writes(sessions.Start))
	mux.HandleFunc("DELETE /api/session", sessions.End)

	if app.Cfg.IsDevelopment() {
		mux.HandleFunc("POST /api/dev/token", writes(sessions.DevToken))
	}

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Groups
	mux.HandleFunc("POST /api/groups", write(groups.Create))
	mux.HandleFunc("GET /api/groups/mine", auth(groups.Mine))
	mux.HandleFunc("GET /api/groups/{id}", auth(groups.Get))
	mux.HandleFunc("GET /api/groups/{id}/members", auth(groups.Members))
	mux.HandleFunc("POST /api/groups/{id}/join", write(groups.Join))
	mux.HandleFunc("POST /api/groups/{id}/leave", write(groups.Leave))
	mux.HandleFunc("POST /api/groups/{id}/admin", write(groups.Admin))

	// Events
	mux.HandleFunc("POST /api/groups/{id}/events", write(events.Create))
	mux.HandleFunc("GET /api/groups/{id}/events", auth(events.Upcoming))
	mux.HandleFunc("POST /api/events/{id}/rsvp", write(events.RSVP))
	mux.HandleFunc("GET /api/events/{id}/relation", auth(events.Relation))

	// Goals
	mux.HandleFunc("GET /api/goals/suggested", auth(goals.Suggested))
	mux.HandleFunc("POST /api/goals/weekly", write(goals.AddWeekly))
	mux.HandleFunc("GET /api/goals/weekly", auth(goals.Weekly))
	mux.HandleFunc("GET /api/goals/completed", auth(goals.Completed))
	mux.HandleFunc("POST /api/goals/complete", write(goals.Complete))
	mux.HandleFunc("POST /api/groups/{id}/goals", write(goals.AddGroupGoal))
	mux.HandleFunc("GET /api/goals/group", auth(goals.GroupGoals))
	mux.HandleFunc("POST /api/goals/{id}/contribute", write(goals.Contribute))
	mux.HandleFunc("POST /api/goals/{id}/claim", write(goals.Claim))

	// Achievements
	mux.HandleFunc("GET /api/achievements", auth(achievements.Earned))
	mux.HandleFunc("GET /api/dashboard", auth(dashboard.Dashboard))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.AuthMiddleware(app.AuthService),
		middleware.RequestLogging, // Needs the user id set by AuthMiddleware
	)

	return handler
}
