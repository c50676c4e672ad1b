package cmd

import (
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/adapters/in/stream"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/registry"
	"fulfillment/internal/adapters/out/whatsapp"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/pkg/backoff"
	"fulfillment/internal/pkg/locker"

	"gorm.io/gorm"
)

const (
	registryTimeout        = 5 * time.Second
	whatsappTimeout        = 5 * time.Second
	webhookTimeout         = 10 * time.Second
	defaultConfirmationTTL = 24 * time.Hour
)

type CompositionRoot struct {
	gormDB          *gorm.DB
	uowFactory      postgres.GormUnitOfWorkFactory
	hub             *stream.Hub
	registryClient  *registry.Client
	messenger       *whatsapp.Messenger
	orderLocks      *locker.KeyedLocker
	webhookClient   *http.Client
	confirmationTTL time.Duration

	verificationSchedule backoff.Schedule
	webhookSchedule      backoff.Schedule
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	confirmationTTL := defaultConfirmationTTL
	if config.ConfirmationTTL != "" {
		if parsed, err := time.ParseDuration(config.ConfirmationTTL); err == nil {
			confirmationTTL = parsed
		}
	}

	return CompositionRoot{
		gormDB:          gormDB,
		uowFactory:      *postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:             stream.NewHub(),
		registryClient:  registry.NewClient(config.RegistryBaseURL, config.RegistryAPIKey, registryTimeout),
		messenger:       whatsapp.NewMessenger(config.WhatsAppBaseURL, config.WhatsAppToken, whatsappTimeout),
		orderLocks:      locker.NewKeyedLocker(),
		webhookClient:   &http.Client{Timeout: webhookTimeout},
		confirmationTTL: confirmationTTL,

		verificationSchedule: backoff.NewSchedule(1*time.Second, 2, 5),
		webhookSchedule:      backoff.NewSchedule(1*time.Second, 2, 8),
	}
}

// Hub returns the dashboard event hub, shared between command handlers
// (publishers) and the SSE endpoint (consumers).
func (c *CompositionRoot) Hub() *stream.Hub {
	return c.hub
}

func (c *CompositionRoot) CreateIngestOrderCommandHandler() commands.IngestOrderCommandHandler {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewIngestOrderCommandHandler(f, c.hub)
}

func (c *CompositionRoot) CreateRequestVerificationCommandHandler() commands.RequestVerificationCommandHandler {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestVerificationCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateConfirmAddressCommandHandler() commands.ConfirmAddressCommandHandler {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmAddressCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateApplyScanCommandHandler() commands.ApplyScanCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyScanCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateMarkExceptionCommandHandler() commands.MarkExceptionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkExceptionCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkDeliveredCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateCreateManifestCommandHandler() commands.CreateManifestCommandHandler {
	var f commands.ManifestUoWFactory = FuncManifestUoWFactory(func() commands.ManifestUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateManifestCommandHandler(f)
}

func (c *CompositionRoot) CreateHandOverManifestCommandHandler() commands.HandOverManifestCommandHandler {
	var f commands.ManifestUoWFactory = FuncManifestUoWFactory(func() commands.ManifestUoW {
		return c.uowFactory.Create()
	})
	return commands.NewHandOverManifestCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateCreateRouteCommandHandler() commands.CreateRouteCommandHandler {
	var f commands.ManifestUoWFactory = FuncManifestUoWFactory(func() commands.ManifestUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateRouteCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterSubscriptionCommandHandler() commands.RegisterSubscriptionCommandHandler {
	var f commands.WebhookUoWFactory = FuncWebhookUoWFactory(func() commands.WebhookUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterSubscriptionCommandHandler(f)
}

func (c *CompositionRoot) CreateResolveVerificationsCommandHandler(
	logger *slog.Logger,
) commands.ResolveVerificationsCommandHandler {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResolveVerificationsCommandHandler(
		f, c.registryClient, c.messenger, c.hub, c.orderLocks,
		c.verificationSchedule, c.confirmationTTL, logger)
}

func (c *CompositionRoot) CreateExpireConfirmationsCommandHandler() commands.ExpireConfirmationsCommandHandler {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireConfirmationsCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateDispatchWebhooksCommandHandler() commands.DispatchWebhooksCommandHandler {
	var f commands.WebhookUoWFactory = FuncWebhookUoWFactory(func() commands.WebhookUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchWebhooksCommandHandler(f, c.webhookClient, c.webhookSchedule)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderTimelineQueryHandler() queries.GetOrderTimelineQueryHandler {
	return queries.NewGetOrderTimelineQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingConfirmationsQueryHandler() queries.GetPendingConfirmationsQueryHandler {
	return queries.NewGetPendingConfirmationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetFailedDeliveriesQueryHandler() queries.GetFailedDeliveriesQueryHandler {
	return queries.NewGetFailedDeliveriesQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncVerificationUoWFactory func() commands.VerificationUoW

func (f FuncVerificationUoWFactory) Create() commands.VerificationUoW {
	return f()
}

type FuncManifestUoWFactory func() commands.ManifestUoW

func (f FuncManifestUoWFactory) Create() commands.ManifestUoW {
	return f()
}

type FuncWebhookUoWFactory func() commands.WebhookUoW

func (f FuncWebhookUoWFactory) Create() commands.WebhookUoW {
	return f()
}
