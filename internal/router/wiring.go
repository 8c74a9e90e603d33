package router

import (
	"context"
	"errors"

	authremote "creature-registry/internal/adapters/auth/remote"
	memledger "creature-registry/internal/adapters/ledger/memory"
	ledgerremote "creature-registry/internal/adapters/ledger/remote"
	"creature-registry/internal/adapters/randomness/blake2"
	pg "creature-registry/internal/adapters/storage/postgres"
	"creature-registry/internal/adapters/storage/sqlite"
	"creature-registry/internal/domain/creatures"
	"creature-registry/internal/platform/config"
	"creature-registry/internal/platform/logger"
	"creature-registry/internal/platform/metrics"
	"creature-registry/internal/ports/ledger"
)

// OptionsFromConfig arma los adapters según la configuración.
// Store: Postgres si hay DB_DSN, SQLite si hay SQLITE_PATH, si no memoria.
// El closer libera la base abierta (no-op en memoria).
func OptionsFromConfig(ctx context.Context, cfg config.Config, log logger.Logger) (Options, func() error, error) {
	opts := Options{
		Logger:  log,
		Metrics: metrics.New("creature_registry"),
		Registry: []creatures.Option{
			creatures.WithStake(ledger.Amount(cfg.StakeAmount)),
		},
	}
	if !cfg.UnlimitedIDs() {
		opts.Registry = append(opts.Registry, creatures.WithMaxID(creatures.ID(cfg.MaxCreatureID)))
		log.Info("creature id space capped", map[string]any{"max_creature_id": cfg.MaxCreatureID})
	}
	closer := func() error { return nil }

	switch {
	case cfg.DBDSN != "":
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return Options{}, nil, err
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return Options{}, nil, err
		}
		opts.Creatures = pg.NewCreaturesRepo(db)
		opts.Events = pg.NewEventsRepo(db)
		closer = db.Close
		log.Info("using postgres store", nil)
	case cfg.SQLitePath != "":
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return Options{}, nil, err
		}
		opts.Creatures = store.Creatures()
		opts.Events = store.Events()
		closer = store.Close
		log.Info("using sqlite store", map[string]any{"path": cfg.SQLitePath})
	default:
		log.Info("using in-memory store", nil)
	}

	fail := func(err error) (Options, func() error, error) {
		return Options{}, nil, errors.Join(err, closer())
	}

	if cfg.LedgerURL != "" {
		l, err := ledgerremote.New(ledgerremote.Config{BaseURL: cfg.LedgerURL, APIKey: cfg.LedgerAPIKey}, log)
		if err != nil {
			return fail(err)
		}
		opts.Ledger = l
	} else {
		balances := make(map[string]ledger.Amount, len(cfg.DevBalances))
		for account, amount := range cfg.DevBalances {
			balances[account] = ledger.Amount(amount)
		}
		opts.Ledger = memledger.New(balances)
		log.Warn("using in-memory ledger", map[string]any{"accounts": len(balances)})
	}

	seed, err := cfg.Seed()
	if err != nil {
		return fail(err)
	}
	src, err := blake2.New(seed)
	if err != nil {
		return fail(err)
	}
	opts.Random = src

	if cfg.AuthURL != "" {
		client, err := authremote.NewClient(authremote.Config{BaseURL: cfg.AuthURL, APIKey: cfg.AuthAPIKey})
		if err != nil {
			return fail(err)
		}
		opts.AuthVerifier = authremote.NewVerifier(client, cfg.AuthCacheTTL)
	} else {
		log.Warn("auth verifier not configured, accepting X-Debug-Account-ID", nil)
	}

	return opts, closer, nil
}
