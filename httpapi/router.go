package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jaredshillingburg/icehockey-analytics/auth"
	"github.com/jaredshillingburg/icehockey-analytics/clips"
	"github.com/jaredshillingburg/icehockey-analytics/market"
	"github.com/jaredshillingburg/icehockey-analytics/nhlapi"
	"github.com/jaredshillingburg/icehockey-analytics/orchestrator"
	"github.com/jaredshillingburg/icehockey-analytics/telemetry"
)

// defaultRouteTimeout bounds most JSON routes; media routes get a
// longer one to accommodate range-request streaming, per spec.md §5.
const (
	defaultRouteTimeout = 15 * time.Second
	mediaRouteTimeout   = 30 * time.Second
)

// Deps is every collaborator the HTTP surface is wired against. A nil
// ClipRepo leaves the v1 and v2 clip routes unregistered, and a nil
// Orchestrator or Conversations does the same for the /query routes
// (requests to them get 404), so a partially-configured deployment
// (e.g. no clips database) still serves the rest of the surface. The
// other fields are used without a nil check.
type Deps struct {
	Log        zerolog.Logger
	Metrics    *telemetry.Registry
	Resolver   *auth.Resolver
	Enforcer   *auth.Enforcer
	Principals *auth.PrincipalStore

	Orchestrator  *orchestrator.Orchestrator
	Conversations *orchestrator.ConversationStore

	ClipRepo   *clips.Repo
	ClipAccess *clips.AccessChecker
	ClipSigner *clips.Signer

	NHL *nhlapi.Client

	Market *market.Store
}

// NewRouter builds the full chi route tree of spec.md §6, grouped by
// resource prefix with a per-group middleware stack, grounded on
// cartographus's internal/api/chi_router.go SetupChi layout.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestLogger(d.Log))
	if d.Metrics != nil {
		r.Use(Metrics(d.Metrics))
		r.Get("/metrics", d.Metrics.Handler().ServeHTTP)
	}

	h := &handlers{d: d}

	r.Get("/healthz", h.healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Timeout(defaultRouteTimeout))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/verify", h.verify)
		})

		r.Route("/query", func(r chi.Router) {
			if d.Orchestrator == nil || d.Conversations == nil {
				return
			}
			r.Use(Timeout(defaultRouteTimeout))
			r.Use(RequireAuth(d.Resolver))
			r.Post("/", h.runQuery)
			r.Post("", h.runQuery)
			r.Post("/stream", h.streamQuery)

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", h.listConversations)
				r.Post("/", h.createConversation)
				r.Route("/{conversationID}", func(r chi.Router) {
					r.Get("/", h.getConversation)
					r.Put("/", h.renameConversation)
					r.Delete("/", h.deleteConversation)
				})
			})
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Use(Timeout(defaultRouteTimeout))
			r.Use(RequireAuth(d.Resolver))
			r.Post("/players", h.analyticsPlayers)
			r.Post("/teams", h.analyticsTeams)
			r.Post("/query", h.analyticsQuery)

			r.Route("/nhl", func(r chi.Router) {
				r.Get("/scores", h.nhlScores)
				r.Get("/schedule", h.nhlSchedule)
				r.Get("/standings", h.nhlStandings)
				r.Get("/leaders", h.nhlLeaders)
				r.Route("/game/{gameID}", func(r chi.Router) {
					r.Get("/boxscore", h.nhlBoxscore)
					r.Get("/play-by-play", h.nhlPlayByPlay)
					r.Get("/landing", h.nhlGameLanding)
				})
			})

			r.Get("/mtl/advanced", h.mtlAdvanced)
		})

		r.Route("/clips", func(r chi.Router) {
			if d.ClipRepo == nil {
				return
			}
			r.Use(Timeout(mediaRouteTimeout))
			r.Use(RequirePermissiveAuth(d.Resolver))
			r.Get("/", h.listClips)
			r.Get("/stats", h.clipStats)
			r.Route("/{clipID}", func(r chi.Router) {
				r.Get("/video", h.clipVideo)
				r.Get("/thumbnail", h.clipThumbnail)
				r.Get("/metadata", h.clipMetadata)
			})
		})

		r.Route("/market", func(r chi.Router) {
			r.Use(Timeout(defaultRouteTimeout))
			r.Use(RequireAuth(d.Resolver))
			r.Route("/contracts", func(r chi.Router) {
				r.Get("/{playerIDOrName}", h.marketContract)
			})
			r.Route("/cap", func(r chi.Router) {
				r.Get("/{team}", h.marketCap)
			})
			r.Get("/trades", h.marketTrades)
			r.Get("/league/overview", h.marketLeagueOverview)
			r.Route("/efficiency", func(r chi.Router) {
				r.Post("/skater", h.marketSkaterEfficiency)
				r.Post("/goalie", h.marketGoalieEfficiency)
			})
			r.Post("/comparables", h.marketComparables)
			r.Get("/depth-chart/{team}", h.marketDepthChart)
		})

		r.Route("/team", func(r chi.Router) {
			r.Use(Timeout(defaultRouteTimeout))
			r.Use(RequireAuth(d.Resolver))
			r.Get("/{team}/advanced", h.teamAdvanced)
			r.Get("/{team}/rotations", h.teamRotations)
			r.Get("/game/{gameID}/deployments", h.teamGameDeployments)
		})
	})

	r.Route("/api/v2", func(r chi.Router) {
		if d.ClipRepo == nil {
			return
		}
		r.Use(Timeout(mediaRouteTimeout))
		r.Use(RequirePermissiveAuth(d.Resolver))

		r.Route("/clips", func(r chi.Router) {
			r.Get("/", h.listClipsV2)
			r.Route("/{clipID}", func(r chi.Router) {
				r.Get("/", h.getClipV2)
				r.Get("/video", h.clipVideoV2)
			})
		})
	})

	return r
}
