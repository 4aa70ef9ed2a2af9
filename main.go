package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"auctioncore/internal/clients/productclient"
	"auctioncore/internal/clients/userclient"
	"auctioncore/internal/clock"
	"auctioncore/internal/config"
	"auctioncore/internal/database/db_client"
	"auctioncore/internal/database/migrations"
	"auctioncore/internal/http/http_server"
	"auctioncore/internal/ledgersync"
	"auctioncore/internal/mirror"
	"auctioncore/internal/redis/redis_client"
	"auctioncore/internal/redis/redis_functions"
	"auctioncore/internal/scheduler"
	auctionsvc "auctioncore/internal/services/auction"
	bidsvc "auctioncore/internal/services/bid"
	"auctioncore/internal/settlement"
	"auctioncore/internal/store/auctionstore"
	"auctioncore/internal/store/bidledger"
	"auctioncore/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	var err error
	var cfg *config.Config
	var redisClient *redis.Client

	// 1. Load configuration
	cfg, err = config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis (auction state store, settlement outbox, event fanout)
	redisClient, err = redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// Load the Redis Functions lua
	if err := redis_functions.LoadAll(ctx, redisClient); err != nil {
		Log.Fatal("load-redis-funcs", zap.Error(err))
	}

	// 4. Postgres (bid ledger, durable auction mirror)
	dsn := db_client.DSN(cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err := migrations.Run(dsn); err != nil {
		Log.Fatal("pg-migrate", zap.Error(err))
	}
	pgDb, err := db_client.Open(dsn)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	// 5. Stores, collaborator clients and services
	clk := clock.System()
	store := auctionstore.New(redisClient)
	ledger := bidledger.New(pgDb)
	redoQueue := ledgersync.NewQueue(redisClient)

	products := productclient.New(cfg.ProductServiceURL, cfg.CollaboratorTimeout)
	users := userclient.New(cfg.UserServiceURL, cfg.CollaboratorTimeout)

	auctionService := auctionsvc.NewAuctionService(store, products, clk)
	bidService := bidsvc.NewBidService(store, ledger, redoQueue, clk,
		cfg.BidMinIncrement, cfg.BidMaxRetries)

	// 6. Background: lifecycle scheduler (start/end scans + settlement outbox)
	reconciler := settlement.NewReconciler(products, cfg.CollaboratorTimeout)
	outbox := settlement.NewOutbox(redisClient)
	scheduler.New(store, outbox, reconciler, clk, cfg.SchedulerInterval).Run(ctx)

	// 7. Background: ledger redo replay + durable mirror
	ledgersync.Run(ctx, redisClient, ledger)
	mirror.Run(ctx, store, pgDb, cfg.SchedulerInterval)

	// 8. WebSockets hub fed by the Redis event channels
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, redisClient, auctionService)

	// 9. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv,
		auctionService, bidService, users)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
