package bootstrap

import (
	"context"

	"abend-assist-be/internal/config"
	"abend-assist-be/internal/controller"
	"abend-assist-be/internal/handler"
	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/internal/pkg/mailer"
	"abend-assist-be/internal/repository/memory"
	"abend-assist-be/internal/repository/redisstore"
	"abend-assist-be/internal/repository/unitofwork"
	"abend-assist-be/internal/service"
	"abend-assist-be/internal/websocket"
	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/dialogue"
	"abend-assist-be/pkg/nlu"
	pktNats "abend-assist-be/pkg/nats"
	"abend-assist-be/pkg/speech"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const chatTurnTopic = "chat_turns"

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	AbendController  controller.IAbendController
	SpeechController controller.ISpeechController
	AdminController  controller.IAdminController

	// Services exposed for cmd/ tools and startup
	AbendService service.IAbendService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	NoticeService   *service.NoticeService

	// WebSockets
	ChatHandler  *handler.ChatHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger

	closers []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	// NATS is optional; an empty NATS_URL or a failed connect disables events.
	var events service.EventPublisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS publisher unavailable", map[string]interface{}{"error": err})
		} else {
			events = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS subscriber unavailable", map[string]interface{}{"error": err})
			natsSub = nil
		} else {
			c.closers = append(c.closers, func() error { natsSub.Close(); return nil })
		}
	}

	// Redis
	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, rdb.Close)
	}

	// 3. Dialogue engine
	var sessions dialogue.SessionStore
	if cfg.App.SessionStore == "redis" && rdb != nil {
		sessions = redisstore.NewSessionRepository(rdb, cfg.Chat.SessionTTL)
	} else {
		if cfg.App.SessionStore == "redis" {
			sysLogger.Warn("Bootstrap", "SESSION_STORE=redis but Redis is unavailable, using memory sessions", nil)
		}
		sessions = memory.NewSessionRepository(cfg.Chat.SessionTTL)
	}

	lexicon, err := nlu.LoadLexicon(cfg.Chat.LexiconFile)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Lexicon file ignored, using built-in phrases", map[string]interface{}{"path": cfg.Chat.LexiconFile, "error": err})
		lexicon = nlu.DefaultLexicon()
	}

	engine := dialogue.NewEngine(
		abend.NewCatalog(),
		sessions,
		service.NewCredentialStore(uowFactory),
		service.NewMailNotifier(emailService, cfg.Chat.OneTimeCodeTTL),
		chatLogger,
		dialogue.Options{
			Lexicon:             lexicon,
			CollaboratorTimeout: cfg.Chat.CollaboratorTimeout,
			OneTimeCodeTTL:      cfg.Chat.OneTimeCodeTTL,
			MaxCodeAttempts:     cfg.Chat.MaxCodeAttempts,
			Address:             service.MailAddress(cfg.Chat.MailDomain),
		},
	)

	// 4. Services
	publisherService := service.NewPublisherService(chatTurnTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, chatTurnTopic, uowFactory, sysLogger)

	chatbotService := service.NewChatbotService(engine, publisherService, events, chatLogger)
	c.AbendService = service.NewAbendService(uowFactory, engine, events, sysLogger, cfg.Chat.CommonAbendCodes)
	speechService := service.NewSpeechService(speech.NewHTTPTranscriber(cfg.Speech.ServiceURL, cfg.Speech.Timeout), sysLogger)
	adminService := service.NewAdminService(uowFactory, sysLogger)

	// 5. WebSocket Hub
	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)
	c.ChatHandler = handler.NewChatHandler(chatbotService, c.WebSocketHub, chatLogger)
	if natsSub != nil {
		c.NoticeService = service.NewNoticeService(natsSub, c.WebSocketHub, sysLogger)
	}

	// 6. Controllers
	c.ChatController = controller.NewChatController(chatbotService)
	c.AbendController = controller.NewAbendController(c.AbendService, cfg.Auth.JWTSecret)
	c.SpeechController = controller.NewSpeechController(speechService)
	c.AdminController = controller.NewAdminController(adminService, cfg.Auth.JWTSecret)

	return c
}

// Start runs the background workers and loads the abend data. A failed
// initial load leaves the engine empty until the next refresh.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	if c.NoticeService != nil {
		if err := c.NoticeService.Start(ctx); err != nil {
			c.Logger.Warn("Bootstrap", "Notice service not started", map[string]interface{}{"error": err})
		}
	}

	res, err := c.AbendService.Refresh(ctx)
	if err != nil {
		c.Logger.Error("Bootstrap", "Initial abend load failed", map[string]interface{}{"error": err})
		return nil
	}
	c.Logger.Info("Bootstrap", "Abend data loaded", map[string]interface{}{"count": res.Count})
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, c.closers[i]())
	}
	_ = c.Logger.Sync()
	return err
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unavailable", map[string]interface{}{"error": err})
		rdb.Close()
		return nil
	}
	return rdb
}
