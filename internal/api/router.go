package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/epochml/epoch-ml/internal/api/handlers"
	"github.com/epochml/epoch-ml/internal/api/middleware"
	"github.com/epochml/epoch-ml/internal/auth"
	"github.com/epochml/epoch-ml/internal/cache"
	"github.com/epochml/epoch-ml/internal/catalog"
	"github.com/epochml/epoch-ml/internal/config"
	"github.com/epochml/epoch-ml/internal/dataset"
	"github.com/epochml/epoch-ml/internal/llm"
	"github.com/epochml/epoch-ml/internal/storage"
	"github.com/epochml/epoch-ml/internal/training"
	"github.com/epochml/epoch-ml/internal/user"
	"github.com/epochml/epoch-ml/internal/webhook"
)

type Router struct {
	mux      *chi.Mux
	db       *pgxpool.Pool
	redis    *redis.Client
	cfg      *config.Config
	sessions training.SessionStore
	notifier training.Notifier
}

// NewRouter wires the HTTP surface. sessions and notifier come from the
// caller so the API can run against Postgres or an in-memory store.
func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, sessions training.SessionStore, notifier training.Notifier) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		db:       db,
		redis:    rdb,
		cfg:      cfg,
		sessions: sessions,
		notifier: notifier,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	var c *cache.Cache
	if rt.redis != nil {
		c = cache.NewCache(rt.redis)
	}

	var store storage.Storage
	if rt.cfg.Storage.SupabaseURL != "" {
		store = storage.NewSupabaseStorage(rt.cfg.Storage.SupabaseURL, rt.cfg.Storage.SupabaseKey)
	}

	userSvc := user.NewService(rt.db, rt.cfg.Auth.BcryptCost)
	tokens := auth.NewTokenIssuer(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.TokenTTL, rt.cfg.Auth.ResetTTL)
	jwt := auth.NewJWTMiddleware(tokens, userSvc)

	catalogSvc := catalog.NewService(rt.db, c)
	datasetSvc := dataset.NewService(rt.db, store, rt.cfg.Storage.Bucket)

	mgrOpts := []training.ManagerOption{}
	if rt.notifier != nil {
		mgrOpts = append(mgrOpts, training.WithNotifier(rt.notifier))
	}
	if rt.cfg.Trainer.RunTimeout > 0 {
		mgrOpts = append(mgrOpts, training.WithRunTimeout(rt.cfg.Trainer.RunTimeout))
	}
	mgr := training.NewManager(rt.sessions, training.NewResolver(rt.cfg.Trainer.ScriptsDir), mgrOpts...)
	trainingSvc := training.NewService(mgr, rt.sessions, catalogSvc, userSvc)

	llmGW := llm.NewGateway(rt.cfg.LLM)

	dispatcher := webhook.NewDispatcher(rt.db)
	webhookSvc := webhook.NewService(rt.db, dispatcher)

	authH := handlers.NewAuthHandler(userSvc, tokens)
	usersH := handlers.NewUsersHandler(userSvc, trainingSvc)
	catalogH := handlers.NewCatalogHandler(catalogSvc)
	datasetH := handlers.NewDatasetHandler(datasetSvc)
	trainingH := handlers.NewTrainingHandler(trainingSvc)
	playgroundH := handlers.NewPlaygroundHandler(llmGW)
	resourcesH := handlers.NewResourcesHandler(userSvc)
	webhookH := handlers.NewWebhookHandler(webhookSvc)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/forgot-password", authH.ForgotPassword)
			r.Post("/reset-password", authH.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(jwt.Authenticate)
				r.Get("/me", authH.Me)
				r.Put("/profile", authH.UpdateProfile)
				r.Post("/profile/topup", authH.Topup)
				r.Delete("/delete-account", authH.DeleteAccount)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(jwt.Authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Get("/profile", usersH.Profile)
				r.Get("/training-history", usersH.TrainingHistory)
				r.With(auth.RequireAdmin).Get("/", usersH.List)
			})

			r.Route("/models", func(r chi.Router) {
				r.Get("/", catalogH.List)
				r.Post("/", catalogH.Create)
				r.Get("/{id}", catalogH.Get)
				r.Get("/{id}/export", catalogH.Export)
			})

			r.Route("/datasets", func(r chi.Router) {
				r.Get("/", datasetH.List)
				r.Post("/", datasetH.Upload)
				r.Get("/{id}", datasetH.Get)
				r.Delete("/{id}", datasetH.Delete)
			})

			r.Route("/training", func(r chi.Router) {
				r.Post("/start", trainingH.Start)
				r.Get("/", trainingH.List)
				r.Get("/{id}", trainingH.Get)
				r.Delete("/{id}", trainingH.Delete)
			})

			r.Route("/playground", func(r chi.Router) {
				r.Post("/generate", playgroundH.Generate)
				r.Get("/models", playgroundH.Models)
			})

			r.Route("/resources", func(r chi.Router) {
				r.Get("/credits", resourcesH.Credits)
				r.Post("/add-credits", resourcesH.AddCredits)
				r.Get("/pricing", resourcesH.Pricing)
			})

			r.Route("/webhooks", func(r chi.Router) {
				r.Post("/", webhookH.Create)
				r.Get("/", webhookH.List)
				r.Delete("/{id}", webhookH.Delete)
			})
		})
	})

	return r
}
