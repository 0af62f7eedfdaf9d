package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/api/handlers"
	"github.com/Togather-Foundation/eventhub/internal/api/middleware"
	"github.com/Togather-Foundation/eventhub/internal/api/problem"
	"github.com/Togather-Foundation/eventhub/internal/audit"
	"github.com/Togather-Foundation/eventhub/internal/config"
	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
	"github.com/Togather-Foundation/eventhub/internal/metrics"
	"github.com/Togather-Foundation/eventhub/internal/storage"
)

// Dependencies are the collaborators the router wires into handlers.
// Health may be nil, in which case only the liveness check is served.
type Dependencies struct {
	Config   config.Config
	Logger   zerolog.Logger
	Repo     storage.Repository
	Notifier events.Notifier
	Health   *handlers.HealthChecker
	Build    BuildInfo

	// PasswordCost overrides the bcrypt cost used for user passwords.
	PasswordCost int
}

// Router is the HTTP entry point. Close releases background resources held
// by the middleware chain.
type Router struct {
	handler http.Handler
	limiter *middleware.RateLimiter
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.handler.ServeHTTP(w, r)
}

func (rt *Router) Close() {
	rt.limiter.Stop()
}

func NewRouter(deps Dependencies) *Router {
	cfg := deps.Config
	env := cfg.Environment

	eventService := events.NewService(deps.Repo.Events(), deps.Notifier, deps.Logger)
	userService := users.NewService(deps.Repo.Users(), deps.Logger)
	if deps.PasswordCost > 0 {
		userService = userService.WithCost(deps.PasswordCost)
	}
	orgService := organizations.NewService(deps.Repo.Organizations(), deps.Logger)
	relationService := relations.NewService(deps.Repo.Relations(), userService, eventService, orgService, deps.Logger)

	eventsHandler := handlers.NewEventsHandler(eventService, env)
	usersHandler := handlers.NewUsersHandler(userService, env)
	orgsHandler := handlers.NewOrganizationsHandler(orgService, env)
	relationsHandler := handlers.NewRelationsHandler(relationService, env)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	if deps.Health != nil {
		mux.Handle("/readyz", deps.Health.Readyz())
		mux.Handle("/health", deps.Health.Health())
	}
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/version", methodMux(env, map[string]http.Handler{
		http.MethodGet: VersionHandler(deps.Build),
	}))

	mux.Handle("/api/{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet: handlers.EntryPoint(),
	}))
	registerResource(mux, env, "/api/events/", eventsHandler)
	registerResource(mux, env, "/api/users/", usersHandler)
	registerResource(mux, env, "/api/orgs/", orgsHandler)

	mux.Handle("/api/users/{id}/events/{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(relationsHandler.UserEvents),
	}))
	mux.Handle("/api/users/{id}/events/{event_id}/{$}", methodMux(env, map[string]http.Handler{
		http.MethodPut:    http.HandlerFunc(relationsHandler.Follow),
		http.MethodDelete: http.HandlerFunc(relationsHandler.Unfollow),
	}))
	mux.Handle("/api/users/{id}/orgs/{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(relationsHandler.UserOrgs),
	}))
	mux.Handle("/api/users/{id}/orgs/{org_id}/{$}", methodMux(env, map[string]http.Handler{
		http.MethodPut:    http.HandlerFunc(relationsHandler.Join),
		http.MethodDelete: http.HandlerFunc(relationsHandler.Leave),
	}))
	mux.Handle("/api/events/{id}/users/{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(relationsHandler.EventUsers),
	}))
	mux.Handle("/api/orgs/{id}/users/{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(relationsHandler.OrgUsers),
	}))

	mux.Handle("/profiles/{resource}/{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet: handlers.Profiles(env),
	}))
	mux.Handle("/eventhub/link-relations/{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet: handlers.LinkRelations(),
	}))

	mux.Handle("/", notFound(env))

	limiter := middleware.NewRateLimiter(cfg.RateLimit, env)

	var handler http.Handler = mux
	handler = middleware.DefaultRequestSize()(handler)
	handler = audit.NewLogger(deps.Logger).Middleware(handler)
	handler = limiter.Middleware(handler)
	handler = middleware.CORS(cfg.CORS, deps.Logger)(handler)
	handler = middleware.SecurityHeaders(env == "production")(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(deps.Logger)(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.CorrelationID(deps.Logger)(handler)

	return &Router{handler: handler, limiter: limiter}
}

// registerResource mounts a collection at prefix and its items at prefix{id}/.
func registerResource(mux *http.ServeMux, env, prefix string, h handlers.Resource) {
	mux.Handle(prefix+"{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(h.List),
		http.MethodPost: http.HandlerFunc(h.Create),
	}))
	mux.Handle(prefix+"{id}/{$}", methodMux(env, map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(h.Get),
		http.MethodPut:    http.HandlerFunc(h.Replace),
		http.MethodDelete: http.HandlerFunc(h.Delete),
	}))
}

func methodMux(env string, handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		allow := allowedMethods(handlers)
		w.Header().Set("Allow", allow)
		problem.Write(w, r, http.StatusMethodNotAllowed, "Method not allowed",
			r.Method+" is not supported here, use one of: "+allow, nil, env)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

func notFound(env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusNotFound, "Not found", "No resource at "+r.URL.Path, nil, env)
	})
}
