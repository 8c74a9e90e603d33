package router

import (
	"net/http"

	"creature-registry/docs"
	memledger "creature-registry/internal/adapters/ledger/memory"
	"creature-registry/internal/adapters/randomness/blake2"
	mem "creature-registry/internal/adapters/storage/memory"
	"creature-registry/internal/domain/creatures"
	"creature-registry/internal/domain/events"
	"creature-registry/internal/middleware"
	"creature-registry/internal/platform/logger"
	"creature-registry/internal/platform/metrics"
	"creature-registry/internal/ports/auth"
	"creature-registry/internal/ports/ledger"
	"creature-registry/internal/ports/randomness"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Si vienen nil se usan los adapters en memoria.
	Creatures creatures.Repository
	Events    events.Repository
	Ledger    ledger.StakeLedger
	Random    randomness.Source

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Opciones extra del registro (stake, tope de ids).
	Registry []creatures.Option
}

func NewRouter(opts Options) http.Handler {
	opts = withDefaults(opts)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(opts.Metrics))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	))

	// El log de eventos es el publisher del registro.
	eventsSvc := events.NewService(opts.Events)

	svcOpts := append([]creatures.Option{
		creatures.WithPublisher(eventsSvc),
		creatures.WithObserver(opts.Metrics),
		creatures.WithLogger(opts.Logger.With(map[string]any{"module": "creatures"})),
	}, opts.Registry...)
	creaturesSvc := creatures.NewService(opts.Creatures, opts.Ledger, opts.Random, svcOpts...)

	creatures.RegisterRoutes(r, creaturesSvc)
	events.RegisterRoutes(r, eventsSvc)

	return r
}

func withDefaults(opts Options) Options {
	if opts.Creatures == nil {
		opts.Creatures = mem.NewCreatureRepo()
	}
	if opts.Events == nil {
		opts.Events = mem.NewEventRepo()
	}
	if opts.Ledger == nil {
		opts.Ledger = memledger.New(nil)
	}
	if opts.Random == nil {
		// seed vacío => 32 bytes de crypto/rand; solo falla si el sistema no tiene entropía
		src, err := blake2.New(nil)
		if err != nil {
			panic(err)
		}
		opts.Random = src
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New("creature_registry")
	}
	return opts
}
