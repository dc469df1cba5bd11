package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/auth"
	"github.com/programme-lv/arena/contest"
	"github.com/programme-lv/arena/httpjson"
	"github.com/programme-lv/arena/logger"
)

// OrganizerCreds is the single operator account competitions are
// administered with. PasswordBcrypt is the bcrypt hash of the
// organizer password, never the password itself.
type OrganizerCreds struct {
	Username       string
	PasswordBcrypt string
}

type HttpServer struct {
	contestSrvc *contest.Service
	router      *chi.Mux
	jwtKey      []byte
	organizer   OrganizerCreds
}

func NewHttpServer(
	contestSrvc *contest.Service,
	jwtKey []byte,
	organizer OrganizerCreds,
	allowedOrigins []string,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("arena", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(logger))
	router.Use(requestLoggerIntoContext)
	router.Use(newStatsLogger().middleware)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	router.Use(auth.GetJwtAuthMiddleware(jwtKey))

	server := &HttpServer{
		contestSrvc: contestSrvc,
		router:      router,
		jwtKey:      jwtKey,
		organizer:   organizer,
	}

	server.routes()

	return server
}

// requestLoggerIntoContext hands the request-scoped logger to the
// service and store layers, so their debug lines correlate with the
// request log.
func requestLoggerIntoContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithLogger(r.Context(), httplog.LogEntry(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (httpserver *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, httpserver.router)
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router
	r.Post("/auth/login", httpserver.authLogin)

	r.Post("/competitions", httpserver.createCompetition)
	r.Get("/competitions", httpserver.listCompetitions)
	r.Post("/competitions/{competitionId}/close", httpserver.closeCompetition)
	r.Post("/competitions/{competitionId}/participants", httpserver.registerParticipant)

	r.Get("/competitions/{competitionId}/state", httpserver.getState)
	r.Post("/competitions/{competitionId}/submissions", httpserver.createSubmission)
	r.Get("/competitions/{competitionId}/submissions/{submissionId}", httpserver.getSubmission)
	r.Post("/competitions/{competitionId}/hints", httpserver.requestHint)
	r.Post("/competitions/{competitionId}/inference-usage", httpserver.recordInferenceUsage)
	r.Post("/competitions/{competitionId}/terminate", httpserver.terminateParticipant)

	r.Get("/competitions/{competitionId}/rankings", httpserver.getRankings)
	r.Get("/competitions/{competitionId}/problems/{problemId}", httpserver.getProblem)
	r.Get("/languages", httpserver.listLanguages)
}

// organizerClaims returns the caller's claims when they carry the
// organizer scope, else writes the error response and returns nil.
func organizerClaims(w http.ResponseWriter, r *http.Request) *auth.JwtClaims {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		httpjson.WriteErrorJson(w, "authentication required",
			http.StatusUnauthorized, "unauthorized")
		return nil
	}
	if !claims.HasScope(auth.ScopeOrganizer) {
		httpjson.WriteErrorJson(w, "organizer scope required",
			http.StatusForbidden, "forbidden")
		return nil
	}
	return claims
}

// agentClaims returns the caller's claims when they are an agent of
// the competition in the URL, else writes the error response and
// returns nil. Organizer tokens pass too so operators can drive any
// endpoint by hand.
func agentClaims(w http.ResponseWriter, r *http.Request) *auth.JwtClaims {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		httpjson.WriteErrorJson(w, "authentication required",
			http.StatusUnauthorized, "unauthorized")
		return nil
	}
	if claims.HasScope(auth.ScopeOrganizer) {
		return claims
	}
	if !claims.HasScope(auth.ScopeAgent) {
		httpjson.WriteErrorJson(w, "agent scope required",
			http.StatusForbidden, "forbidden")
		return nil
	}
	if claims.CompetitionID != chi.URLParam(r, "competitionId") {
		httpjson.WriteErrorJson(w, "token is bound to another competition",
			http.StatusForbidden, "forbidden")
		return nil
	}
	return claims
}
