package bootstrap

import (
	"context"

	"notebook-core/internal/config"
	"notebook-core/internal/pkg/logger"
	"notebook-core/internal/repository/memory"
	"notebook-core/internal/service"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	Logger logger.ILogger

	NotebookService service.INotebookService

	// Background Services (started by the caller)
	ConsumerService service.IConsumerService

	pubSub *gochannel.GoChannel
}

// NewContainer wires the session store, event bus and services. sysLogger is
// passed in so that command line tools can keep stdout clean.
func NewContainer(cfg *config.Config, sysLogger logger.ILogger) *Container {
	// 1. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NopLogger{},
	)

	// 2. Sessions
	sessionRepo := memory.NewSessionRepository(cfg.Notebook.SessionTTL, cfg.Notebook.SessionCleanupInterval)
	sessionRepo.OnEvicted(func(sessionID string) {
		sysLogger.Debug("SESSION", "Session evicted", map[string]interface{}{"notebook_id": sessionID})
	})

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Notebook.EventTopic, pubSub)
	eventLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)
	consumerService := service.NewConsumerService(pubSub, cfg.Notebook.EventTopic, eventLogger)

	notebookService := service.NewNotebookService(
		sessionRepo,
		publisherService,
		sysLogger,
		service.NotebookServiceConfig{
			DefaultName:     cfg.Notebook.DefaultName,
			DefaultLanguage: cfg.Notebook.DefaultLanguage,
		},
	)

	return &Container{
		Logger:          sysLogger,
		NotebookService: notebookService,
		ConsumerService: consumerService,
		pubSub:          pubSub,
	}
}

// Start launches the background consumers.
func (c *Container) Start(ctx context.Context) error {
	return c.ConsumerService.Consume(ctx)
}

func (c *Container) Close() error {
	err := c.pubSub.Close()
	_ = c.Logger.Sync()
	return err
}
