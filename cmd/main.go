/**
 * @description
 * This is the main entry point for the ledger-service. It is responsible for
 * initializing all components of the service: configuration, the account
 * store backend, the message broker, the core ledger service, the Discord
 * bot and the dashboard HTTP server. It wires everything together so both
 * entry points share one store and one ledger, and shuts down gracefully.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/jackc/pgx/v5, github.com/redis/go-redis/v9: Store backends.
 * - internal/api, internal/app, internal/bot, internal/config, internal/store: Internal packages.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nilebank/ledger-service/internal/api"
	"github.com/nilebank/ledger-service/internal/app"
	"github.com/nilebank/ledger-service/internal/bot"
	"github.com/nilebank/ledger-service/internal/config"
	"github.com/nilebank/ledger-service/internal/domain"
	"github.com/nilebank/ledger-service/internal/store"
	rmrabbit "github.com/nilebank/ledger-service/pkg/rabbitmq"
)

func main() {
	// Load application configuration from environment variables.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"session secret must be configured\" env=SESSION_SECRET")
	}

	log.Printf("level=info component=bootstrap msg=\"starting ledger-service\" port=%s store=%s", cfg.ServerPort, cfg.StoreBackend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the account store backend.
	accounts, cleanup := buildAccountStore(ctx, cfg)
	defer cleanup()

	// Initialize the RabbitMQ producer for balance events. RabbitMQ being
	// down must not prevent the bot from booting; events degrade to no-ops.
	var producer rmrabbit.Publisher
	eventProducer, err := rmrabbit.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
		producer = &rmrabbit.EventProducerFallback{}
	} else {
		defer eventProducer.Close()
		producer = eventProducer
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// One ledger service instance serves the bot and the dashboard.
	defaults := domain.AccountDefaults{
		ReceiveNumber: cfg.DefaultReceiveNumber,
		SendNumber:    cfg.DefaultSendNumber,
		TaxAmount:     cfg.DefaultTaxAmount,
	}
	ledger := app.NewService(accounts, producer, defaults)

	// Start the Discord bot. A missing token degrades to dashboard-only mode
	// so the web side can be developed without a bot account.
	if cfg.BotToken == "" {
		log.Println("level=warn component=bootstrap msg=\"bot token missing; running dashboard only\" env=BOT_TOKEN")
	} else {
		discordBot, err := bot.New(cfg.BotToken, ledger, app.AdminAuthorizer{AdminID: cfg.AdminUserID})
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"bot init failed\" err=%v", err)
		}
		if err := discordBot.Start(ctx); err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"bot start failed\" err=%v", err)
		}
		defer discordBot.Stop()
		log.Println("level=info component=bootstrap msg=\"bot connected\"")
	}

	// Wire the realtime channel: consume balance events and fan them out to
	// dashboard WebSocket clients.
	hub := api.NewHub()
	if cfg.RabbitMQURL != "" {
		consumer, err := rmrabbit.NewConsumer(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq consumer unavailable; live balance updates disabled\" err=%v", err)
		} else {
			defer consumer.Close()
			bindings := map[string]func([]byte) bool{
				rmrabbit.BalanceUpdatedKey: hub.HandleBalanceEventMessage,
			}
			if err := consumer.ConsumeWithBindings(rmrabbit.LedgerExchange, cfg.LedgerEventQueue, bindings); err != nil {
				log.Printf("level=warn component=bootstrap msg=\"balance event consumer start failed\" err=%v", err)
			}
		}
	}

	// Set up the dashboard router and HTTP server.
	dashboardHandlers := api.NewDashboardHandlers(ledger, cfg.PublicDir)
	oauthHandlers := api.NewOAuthHandlers(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.DiscordCallbackURL, cfg.SessionSecret)
	router := api.DashboardRoutes(dashboardHandlers, oauthHandlers, hub, cfg.SessionSecret, cfg.ServerURL, cfg.PublicDir)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}

// buildAccountStore selects the configured backend. Postgres is the primary;
// Redis keeps compatibility with the flat key-value dataset the service
// originally ran on; memory is a last-resort local fallback.
func buildAccountStore(ctx context.Context, cfg config.Config) (store.AccountStore, func()) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		options, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"redis url parse failed\" err=%v", err)
		}
		client := redis.NewClient(options)
		pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
		defer cancelPing()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"redis connection failed\" err=%v", err)
		}
		log.Println("level=info component=bootstrap msg=\"redis connected\"")
		return store.NewRedisStore(client), func() { client.Close() }

	case config.StorePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			log.Println("level=warn component=bootstrap msg=\"database url missing; falling back to in-memory store\" env=DATABASE_URL")
			return store.NewMemoryStore(), func() {}
		}
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
		}
		poolConfig.MaxConns = 10
		poolConfig.MaxConnLifetime = 30 * time.Minute
		poolConfig.MaxConnIdleTime = 5 * time.Minute

		dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
		}
		log.Println("level=info component=bootstrap msg=\"database connected\"")
		return store.NewPostgresStore(dbpool), func() { dbpool.Close() }

	default:
		log.Println("level=info component=bootstrap msg=\"using in-memory store; state is not persisted\"")
		return store.NewMemoryStore(), func() {}
	}
}
