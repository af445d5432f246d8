package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-taskmanager-be/internal/config"
	"ai-taskmanager-be/internal/controller"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/internal/pkg/serverutils"
	"ai-taskmanager-be/internal/repository/unitofwork"
	"ai-taskmanager-be/internal/service"
	"ai-taskmanager-be/pkg/agent/history"
	"ai-taskmanager-be/pkg/events"
	"ai-taskmanager-be/pkg/filestore"
	pktNats "ai-taskmanager-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	TaskController     controller.ITaskController
	DocumentController controller.IDocumentController
	AgenticController  controller.IAgenticController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	SeederService   service.ISeederService // nil when seeding is disabled
	ActivityService service.IActivityService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	activityLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)

	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers,
		func() { _ = llmLogger.Sync() },
		func() { _ = activityLogger.Sync() },
		func() { _ = sysLogger.Sync() },
	)

	// 2. Job Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	var eventSubscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		eventSubscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	historyStore := newHistoryStore(cfg, c)

	fileStore, err := filestore.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to prepare upload dir: %v", err)
	}

	// 4. Agents
	stack := NewAgentStack(context.Background(), cfg, llmLogger)
	c.closers = append(c.closers, stack.Closers...)

	// 5. Services
	authService := service.NewAuthService(
		uowFactory,
		eventPublisher,
		cfg.Auth.JwtSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		sysLogger,
	)
	userService := service.NewUserService(uowFactory)
	taskService := service.NewTaskService(uowFactory, eventPublisher, sysLogger)
	documentService := service.NewDocumentService(
		uowFactory,
		fileStore,
		historyStore,
		eventPublisher,
		sysLogger,
		service.DocumentServiceConfig{
			MaxUploadBytes:   int64(cfg.Storage.MaxUploadBytes),
			AllowedMimeTypes: cfg.Storage.AllowedMimeTypes,
		},
	)
	agenticService := service.NewAgenticService(
		stack.Registry,
		stack.Coordinator,
		documentService,
		historyStore,
		eventPublisher,
		sysLogger,
	)

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Seeder.Topic, uowFactory, eventPublisher, sysLogger)
	if cfg.Seeder.Enabled {
		c.SeederService = service.NewSeederService(
			service.NewPublisherService(cfg.Seeder.Topic, pubSub),
			cfg.Seeder.UserIds,
			time.Duration(cfg.Seeder.IntervalSeconds)*time.Second,
			sysLogger,
		)
	}
	c.ActivityService = service.NewActivityService(eventSubscriber, activityLogger)

	// 6. Controllers
	jwt := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)
	c.AuthController = controller.NewAuthController(authService)
	c.UserController = controller.NewUserController(userService, jwt)
	c.TaskController = controller.NewTaskController(taskService, jwt)
	c.DocumentController = controller.NewDocumentController(documentService, jwt, int64(cfg.Storage.MaxUploadBytes))
	c.AgenticController = controller.NewAgenticController(agenticService, jwt)

	return c
}

// newHistoryStore prefers redis when configured and reachable.
func newHistoryStore(cfg *config.Config, c *Container) history.Store {
	ttl := time.Duration(cfg.History.TTLMinutes) * time.Minute
	if cfg.History.Backend != "redis" {
		return history.NewMemoryStore(ttl)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory history", err)
		_ = rdb.Close()
		return history.NewMemoryStore(ttl)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	log.Printf("[INFO] Using Redis chat history")
	return history.NewRedisStore(rdb, ttl)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
