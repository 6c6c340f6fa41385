package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/futurelab/intuto-connect/internal/collections"
	"github.com/futurelab/intuto-connect/internal/config"
	"github.com/futurelab/intuto-connect/internal/handlers"
	"github.com/futurelab/intuto-connect/internal/intuto"
	"github.com/futurelab/intuto-connect/internal/mail"
	"github.com/futurelab/intuto-connect/internal/middlewares"
	"github.com/futurelab/intuto-connect/internal/oauth"
	"github.com/futurelab/intuto-connect/internal/products"
	"github.com/futurelab/intuto-connect/internal/purchase"
	"github.com/futurelab/intuto-connect/internal/scheduler"
	"github.com/futurelab/intuto-connect/internal/store"
	"github.com/futurelab/intuto-connect/internal/tokens"
	"github.com/futurelab/intuto-connect/model"
	"github.com/futurelab/intuto-connect/params"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/redis/v3"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "intuto-connect - links a commerce store to an Intuto account"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(dbConfig config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dbConfig.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

func mustInitRedisStorage(redisCfg config.RedisConfig) *redis.Storage {
	return redis.New(redis.Config{
		URL:           redisCfg.URL,
		PoolSize:      redisCfg.PoolSize,
		IsClusterMode: redisCfg.ClusterMode,
	})
}

func mustInitMailSender(mailCfg config.MailConfig) mail.MailSender {
	if mailCfg.Backend == "" {
		slog.Warn("No mail backend configured, enrollment notifications disabled")
		return nil
	}
	if mailCfg.Backend != "smtp" {
		slog.Error("Unsupported mail sender backend", "backend", mailCfg.Backend)
		os.Exit(1)
	}
	sender, err := mail.NewSMTPMailSender(mail.SMTPConfig{
		Host:     mailCfg.SMTP.Host,
		Port:     mailCfg.SMTP.Port,
		Username: mailCfg.SMTP.Username,
		Password: mailCfg.SMTP.Password,
		TLS:      mailCfg.SMTP.TLS,
		CertFile: mailCfg.SMTP.CertFile,
		KeyFile:  mailCfg.SMTP.KeyFile,
		CAFile:   mailCfg.SMTP.CAFile,
	}, mailCfg.SMTP.From)
	if err != nil {
		slog.Error("Failed to initialize SMTP mail sender", "error", err)
		os.Exit(1)
	}
	return sender
}

func setupRoutes(
	router fiber.Router,
	adminAPIKey string,
	authHandler *handlers.AuthHandler,
	collectionsHandler *handlers.CollectionsHandler,
	membersHandler *handlers.MembersHandler,
	productsHandler *handlers.ProductsHandler,
	webhookHandler *handlers.WebhookHandler) {

	// the identity server redirects the admin's browser here
	router.Get("/oauth/callback", authHandler.GetCallback)

	admin := router.Group("/admin", middlewares.RequireAPIKey(adminAPIKey))
	admin.Get("/authorize", authHandler.GetAuthorize)
	admin.Post("/deauthorize", authHandler.PostDeauthorize)
	admin.Get("/status", authHandler.GetStatus)
	admin.Get("/collections", collectionsHandler.GetCollections)
	admin.Get("/collections/search", collectionsHandler.GetSearchCollections)
	admin.Post("/collections/sync", collectionsHandler.PostSync)
	admin.Get("/collections/sync/status", collectionsHandler.GetSyncStatus)
	admin.Get("/members", membersHandler.GetMembers)
	admin.Get("/products", productsHandler.GetProductLinks)
	admin.Get("/products/:id/collection", productsHandler.GetProductLink)
	admin.Put("/products/:id/collection", productsHandler.PutProductLink)
	admin.Delete("/products/:id/collection", productsHandler.DeleteProductLink)

	webhooks := router.Group("/webhook", middlewares.RequireAPIKey(adminAPIKey))
	webhooks.Post("/orders", webhookHandler.PostOrderCompleted)
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	mustInitLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))

	db := mustInitDatabase(cfg.MySQL)
	redisStorage := mustInitRedisStorage(cfg.Redis)
	cacheStorage := store.NewRedisStorage(redisStorage.Conn())
	mailSender := mustInitMailSender(cfg.Mail)

	// token plumbing
	var (
		endpoints   = oauth.EndpointsFor(cfg.Intuto.Sandbox)
		redirectURI = strings.TrimSuffix(cfg.BaseURL, "/") + "/oauth/callback"
		tokenStore  = tokens.NewTokenStore(cacheStorage)
		oauthClient = oauth.NewClient(cfg.Intuto.ClientID, cfg.Intuto.ClientSecret, redirectURI, endpoints, tokenStore, cacheStorage)
		apiClient   = intuto.NewClient(endpoints.APIBase, tokenStore, oauthClient)
	)

	// repositories and services
	var (
		productRepo        = products.NewRepository(db)
		enrollmentRepo     = purchase.NewEnrollmentRepository(db)
		collectionsService = collections.NewService(apiClient, cacheStorage)
		purchaseService    = purchase.NewService(apiClient, productRepo, enrollmentRepo, mailSender, cfg.Mail.AdminAddr)
	)

	// handlers
	var (
		authHandler        = handlers.NewAuthHandler(oauthClient, tokenStore, collectionsService)
		collectionsHandler = handlers.NewCollectionsHandler(collectionsService)
		membersHandler     = handlers.NewMembersHandler(apiClient)
		productsHandler    = handlers.NewProductsHandler(productRepo)
		webhookHandler     = handlers.NewWebhookHandler(purchaseService)
	)

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Api-Key",
	}))

	setupRoutes(router, cfg.AdminAPIKey, authHandler, collectionsHandler, membersHandler, productsHandler, webhookHandler)

	tasks := scheduler.New()
	tasks.Add("collection-sync", params.CollectionSyncInterval, func(ctx context.Context) {
		collectionsService.SyncToCache(ctx)
	})
	tasks.Add("token-refresh", params.TokenRefreshInterval, func(ctx context.Context) {
		if _, err := oauthClient.Refresh(ctx); err != nil {
			slog.Warn("scheduled token refresh failed", "error", err)
		}
	})
	taskCtx, term := context.WithCancel(ctx.Context)
	tasks.Start(taskCtx)
	defer func() {
		term()
		tasks.Wait()
	}()

	go startHealthCheckServer(params.HealthCheckServerAddr, mysqlReadyCheck(db), redisReadyCheck(redisStorage.Conn()))

	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
