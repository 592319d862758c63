package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cloudinaryadapter "snapgram/internal/adapters/cloudinary"
	dbadapter "snapgram/internal/adapters/database"
	"snapgram/internal/adapters/httpapi"
	mongoadapter "snapgram/internal/adapters/mongodb"
	"snapgram/internal/adapters/rabbitmq"
	redisadapter "snapgram/internal/adapters/redis"
	"snapgram/internal/config"
	conversationapp "snapgram/internal/core/conversation/service"
	followerapp "snapgram/internal/core/follower/service"
	outboxapp "snapgram/internal/core/outbox/service"
	postapp "snapgram/internal/core/post/service"
	"snapgram/internal/core/session"
	userapp "snapgram/internal/core/user/service"
	conversationPort "snapgram/internal/ports/conversation"
	outboxPort "snapgram/internal/ports/outbox"
	"snapgram/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	root := &cli.Command{
		Name:  "snapgram",
		Usage: "Photo sharing API server",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			settings := bootstrap()
			return runServer(ctx, settings, true)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		if config.Logger != nil {
			config.Logger.Fatal("snapgram exited", zap.Error(err))
		}
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "migrate the database, then run the HTTP API and the outbox worker",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port, overrides APP_PORT"},
			&cli.BoolFlag{Name: "skip-migrate", Usage: "do not run migrations on startup"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			settings := bootstrap()
			if port := c.String("port"); port != "" {
				settings.AppPort = port
			}
			return runServer(ctx, settings, !c.Bool("skip-migrate"))
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the SQL schema and exit",
		Action: func(ctx context.Context, c *cli.Command) error {
			settings := bootstrap()
			config.InitDB(settings.DBDriver, settings.DBDSN)
			defer closeDB(config.Logger)

			if err := dbadapter.Migrate(config.DB); err != nil {
				return err
			}
			config.Logger.Info("✅ Database migrations completed")
			return nil
		},
	}
}

// bootstrap loads .env, builds the logger and reads the settings.
func bootstrap() config.Settings {
	envLoaded := config.LoadEnv()
	config.InitLogger(os.Getenv("APP_ENV"))
	return config.Init(envLoaded)
}

func runServer(ctx context.Context, settings config.Settings, migrate bool) error {
	logger := config.Logger
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config.InitDB(settings.DBDriver, settings.DBDSN)
	if migrate {
		if err := dbadapter.Migrate(config.DB); err != nil {
			logger.Fatal("Error during migrations", zap.Error(err))
		}
		logger.Info("✅ Database migrations completed")
	}

	config.InitRedis(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB)

	// بستن منابع بعد از اتمام کار سرور
	defer closeResources(logger)

	images, err := cloudinaryadapter.NewImageStore(settings.CloudinaryURL, logger)
	if err != nil {
		return err
	}

	userRepo := dbadapter.NewUserRepositoryDatabase(config.DB)
	followerRepo := dbadapter.NewFollowerRepositoryDatabase(config.DB)
	postRepo := dbadapter.NewPostRepositoryDatabase(config.DB)
	outboxRepo := dbadapter.NewOutboxRepositoryDatabase(config.DB)
	conversationRepo, err := conversationStore(ctx, settings)
	if err != nil {
		return err
	}

	sessions := session.NewManager([]byte(settings.JWTSecret), redisadapter.NewSessionRepositoryRedis(config.RedisClient))
	events := outboxapp.NewRecorder(outboxRepo, logger)

	userSvc := userapp.NewUserService(userRepo, followerRepo, images, sessions, logger)
	followerSvc := followerapp.NewFollowerService(followerRepo, userRepo, events, logger)
	postSvc := postapp.NewPostService(postRepo, userRepo, images, events, logger)
	conversationSvc := conversationapp.NewConversationService(conversationRepo, userRepo, events, logger)

	production := settings.AppEnv == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpapi.SetupRoutes(userSvc, followerSvc, postSvc, conversationSvc, sessions, logger, httpapi.Options{
		CORSOrigin:     settings.CORSOrigin,
		SecureCookie:   production,
		MaxUploadBytes: int64(settings.UploadMaxMB) << 20,
	})

	// اجرای worker در پس‌زمینه
	worker := workers.NewOutboxWorker(outboxRepo, eventPublisher(settings, logger), settings.BatchSize, settings.OutboxMaxAttempts, logger)
	workerDone := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(workerDone)
	}()

	srv := &http.Server{Addr: ":" + settings.AppPort, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			stop()
			<-workerDone
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	<-workerDone
	return err
}

// conversationStore picks where direct messages live.
func conversationStore(ctx context.Context, settings config.Settings) (conversationPort.ConversationRepository, error) {
	if settings.MessageStore != "mongo" {
		return dbadapter.NewConversationRepositoryDatabase(config.DB), nil
	}

	config.InitMongo(ctx, settings.MongoURI)
	repo := mongoadapter.NewConversationRepositoryMongo(config.MongoClient.Database(settings.MongoDatabase))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// eventPublisher RabbitMQ when configured, the log otherwise.
func eventPublisher(settings config.Settings, logger *zap.Logger) outboxPort.Publisher {
	if settings.AMQPURL == "" {
		logger.Info("AMQP_URL is not set, events go to the log")
		return rabbitmq.NewLogPublisher(logger)
	}
	config.InitRabbitMQ(settings.AMQPURL, settings.AMQPExchange)
	return rabbitmq.NewEventPublisher(config.AMQPChannel, settings.AMQPExchange)
}

// closeResources بستن اتصالات به Redis، دیتابیس و بقیه
func closeResources(logger *zap.Logger) {
	if config.AMQPChannel != nil {
		if err := config.AMQPChannel.Close(); err != nil {
			logger.Error("Error closing RabbitMQ channel", zap.Error(err))
		}
	}
	if config.AMQPConn != nil {
		if err := config.AMQPConn.Close(); err != nil {
			logger.Error("Error closing RabbitMQ connection", zap.Error(err))
		}
	}

	if config.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := config.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("Error closing MongoDB connection", zap.Error(err))
		}
	}

	if err := config.RedisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}

	closeDB(logger)
	_ = logger.Sync()
}

func closeDB(logger *zap.Logger) {
	sqlDB, err := config.DB.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
