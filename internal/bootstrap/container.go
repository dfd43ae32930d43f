package bootstrap

import (
	"context"
	"time"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/controller"
	"notekeeper-be/internal/handler"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/mailer"
	"notekeeper-be/internal/pkg/metrics"
	"notekeeper-be/internal/pkg/password"
	"notekeeper-be/internal/pkg/token"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/implementation"
	"notekeeper-be/internal/repository/memory"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"
	"notekeeper-be/internal/websocket"
	pktNats "notekeeper-be/pkg/nats"
	"notekeeper-be/pkg/oauth"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const infraTimeout = 5 * time.Second

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	OAuthController  controller.IOAuthController // nil when Google is not configured
	NoteController   controller.INoteController
	HealthController controller.IHealthController

	// Live sync
	SyncHandler  *handler.SyncHandler
	WebSocketHub *websocket.Hub

	ConsumerService service.IConsumerService
	Metrics         *metrics.Collector
	Tokens          *token.Manager

	pubSub      *gochannel.GoChannel
	natsPub     *pktNats.Publisher
	rdb         *redis.Client
	eventLogger logger.ILogger
	logger      logger.ILogger
	cancel      context.CancelFunc
}

func NewContainer(db *gorm.DB, cfg *config.Config, log logger.ILogger) *Container {
	// 1. Core
	uowFactory := unitofwork.NewRepositoryFactory(db)
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	collector := metrics.NewCollector("notekeeper")
	eventLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)

	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.App.FrontendURL,
		)
	} else {
		log.Info("Bootstrap", "SMTP not configured, welcome emails disabled", nil)
	}

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	// 3. Optional infrastructure
	natsPub := connectNats(cfg.App.NatsURL, log)
	rdb := connectRedis(cfg.App.RedisURL, log)

	var relay service.EventRelay
	if natsPub != nil {
		relay = natsPub
	}

	var states contract.OAuthStateRepository
	if rdb != nil {
		states = implementation.NewRedisOAuthStateRepository(rdb)
	} else {
		states = memory.NewOAuthStateRepository()
	}

	wsHub := websocket.NewHub(rdb, eventLogger)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.NoteEventsTopic, pubSub, eventLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.NoteEventsTopic,
		uowFactory,
		relay,
		wsHub,
		collector,
		eventLogger,
	)

	authService := service.NewAuthService(uowFactory, hasher, tokens, publisherService, emailService, log)
	noteService := service.NewNoteService(uowFactory, publisherService)

	var oauthController controller.IOAuthController
	if cfg.Google.Enabled() {
		provider := oauth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL, log)
		oauthService := service.NewOAuthService(provider, states, authService, log)
		oauthController = controller.NewOAuthController(oauthService, cfg.App.FrontendURL, log)
	} else {
		log.Info("Bootstrap", "GOOGLE_CLIENT_ID not set, Google redirect flow disabled", nil)
	}

	// 5. Controllers
	return &Container{
		AuthController:   controller.NewAuthController(authService),
		OAuthController:  oauthController,
		NoteController:   controller.NewNoteController(noteService, tokens),
		HealthController: controller.NewHealthController(collector),

		SyncHandler:  handler.NewSyncHandler(wsHub, tokens, eventLogger),
		WebSocketHub: wsHub,

		ConsumerService: consumerService,
		Metrics:         collector,
		Tokens:          tokens,

		pubSub:      pubSub,
		natsPub:     natsPub,
		rdb:         rdb,
		eventLogger: eventLogger,
		logger:      log,
	}
}

// Start launches the background workers. They stop when Close is called.
func (c *Container) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		c.cancel()
		return err
	}
	return nil
}

func (c *Container) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.pubSub.Close(); err != nil {
		c.logger.Warn("Bootstrap", "Failed to close event bus", map[string]interface{}{"error": err})
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			c.logger.Warn("Bootstrap", "Failed to close Redis", map[string]interface{}{"error": err})
		}
	}
	_ = c.eventLogger.Sync()
}

func connectNats(url string, log logger.ILogger) *pktNats.Publisher {
	if url == "" {
		return nil
	}

	pub, err := pktNats.NewPublisher(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to connect to NATS, relay disabled", map[string]interface{}{"error": err})
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), infraTimeout)
	defer cancel()
	if err := pub.EnsureStream(ctx); err != nil {
		log.Warn("Bootstrap", "Failed to ensure NATS stream", map[string]interface{}{"error": err})
	}
	return pub
}

func connectRedis(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), infraTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Failed to connect to Redis, running single-instance", map[string]interface{}{"error": err})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
