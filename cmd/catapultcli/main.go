package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/announcer"
	"github.com/gabapcia/catapultcli/internal/config"
	"github.com/gabapcia/catapultcli/internal/handlers/cli"
	nodeclient "github.com/gabapcia/catapultcli/internal/infra/blockchain/catapult"
	"github.com/gabapcia/catapultcli/internal/infra/storage/redis"
	"github.com/gabapcia/catapultcli/internal/journal"
	"github.com/gabapcia/catapultcli/internal/monitor"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/logger"
	"github.com/gabapcia/catapultcli/internal/pkg/telemetry"
	"github.com/gabapcia/catapultcli/internal/pkg/transport/http"
	"github.com/gabapcia/catapultcli/internal/pkg/transport/rest"
	"github.com/gabapcia/catapultcli/internal/txbuilder"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		return 2
	}

	shutdown := telemetry.ShutdownFunc(telemetry.Noop)
	if cfg.Telemetry {
		if shutdown, err = telemetry.Init(ctx, cfg.ServiceName); err != nil {
			_, _ = os.Stderr.WriteString("telemetry: " + err.Error() + "\n")
			return 1
		}
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdown(ctx)
	}()

	if err := logger.Init(cfg.LogLevel, logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx = logger.Derive(ctx, "run_id", uuid.NewString())

	if err := cli.Run(ctx, bootstrapper(cfg)); err != nil {
		logger.Error(ctx, "command failed", "error", err)
		if errors.Is(err, account.ErrConfiguration) {
			return 2
		}
		return 1
	}
	return 0
}

// bootstrapper wires the services of one command against endpoint, which
// comes from the --endpoint flag and overrides cfg.Endpoint.
func bootstrapper(cfg config.Config) cli.Bootstrap {
	return func(ctx context.Context, endpoint string) (*cli.Services, func(), error) {
		if endpoint == "" {
			endpoint = cfg.Endpoint
		}

		queries, err := rest.NewClient(http.NewClient(http.WithTimeout(cfg.HTTPTimeout)).StandardClient(), endpoint)
		if err != nil {
			return nil, nil, err
		}
		submissions, err := rest.NewClient(http.NewClient(http.WithTimeout(cfg.HTTPTimeout), http.WithRetryMax(0)).StandardClient(), endpoint)
		if err != nil {
			return nil, nil, err
		}
		node := nodeclient.NewClient(queries,
			nodeclient.WithAnnounceConn(submissions),
			nodeclient.WithWebsocketDialer(&websocket.Dialer{
				Proxy:            nethttp.ProxyFromEnvironment,
				HandshakeTimeout: cfg.HTTPTimeout,
			}),
		)

		env := txbuilder.Env{
			Network:         cfg.Network,
			EpochAdjustment: cfg.EpochAdjustment,
			MaxFee:          cfg.MaxFee,
		}
		generationHash := cfg.GenerationHash

		currencyNamespace, err := catapult.NamespaceIDFromName(cfg.CurrencyNamespace)
		if err != nil {
			return nil, nil, err
		}

		var currencyMosaic catapult.MosaicID
		if cfg.Discover {
			info, err := node.NetworkInfo(ctx)
			if err != nil {
				return nil, nil, err
			}

			env.Network = info.Network
			env.EpochAdjustment = info.EpochAdjustment
			generationHash = info.GenerationHash
			currencyMosaic = info.CurrencyMosaicID

			logger.Info(ctx, "network discovered",
				"network", info.Network.String(),
				"generation_hash", info.GenerationHash.String(),
				"currency_mosaic", info.CurrencyMosaicID.String(),
			)
		}

		var closers []func()
		release := func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}

		var (
			accounts account.Store
			writer   account.Writer
			entries  journal.Storage
		)
		if cfg.NeedsRedis() {
			c, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB,
				redis.WithJournalTTL(cfg.Redis.JournalTTL))
			if err != nil {
				return nil, nil, err
			}
			closers = append(closers, func() { _ = c.Close() })

			if cfg.AccountStore == config.AccountStoreRedis {
				accounts = c
				writer = c
			}
			entries = c
		}

		if accounts == nil {
			static := account.NewStaticStore()
			if cfg.AccountsFile != "" {
				records, err := account.LoadFile(cfg.AccountsFile)
				if err != nil {
					release()
					return nil, nil, err
				}
				static.Put(records...)
			}
			accounts = static
		}

		announcerOpts := []announcer.Option{announcer.WithPolicy(cfg.AnnouncePolicy)}

		var jrnl journal.Journal
		if cfg.Journal {
			jrnl = journal.New(entries)
			announcerOpts = append(announcerOpts, announcer.WithJournal(jrnl))
		}

		mon, err := monitor.New(node, monitor.WithEventHandler(func(ctx context.Context, ev monitor.Event) {
			monitor.LogEvent(ctx, ev)
			if jrnl == nil {
				return
			}
			if err := jrnl.Observe(ctx, ev); err != nil {
				logger.Warn(ctx, "failed to journal event", "kind", string(ev.Kind), "hash", ev.Hash.String(), "error", err)
			}
		}))
		if err != nil {
			release()
			return nil, nil, err
		}
		closers = append(closers, mon.CloseAll)

		ann, err := announcer.New(node, generationHash, announcerOpts...)
		if err != nil {
			release()
			return nil, nil, err
		}

		svc := &cli.Services{
			Accounts:          account.New(accounts),
			Node:              node,
			Announcer:         ann,
			Monitor:           mon,
			Journal:           jrnl,
			AccountWriter:     writer,
			Env:               env,
			CurrencyNamespace: currencyNamespace,
			CurrencyMosaic:    currencyMosaic,
		}
		return svc, release, nil
	}
}
