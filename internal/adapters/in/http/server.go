// Package http exposes the fulfillment engine's public REST API. Handlers
// translate wire payloads into commands and queries; every domain rule lives
// behind them in the application layer.
package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	ingestOrderHandler          commands.IngestOrderCommandHandler
	requestVerificationHandler  commands.RequestVerificationCommandHandler
	confirmAddressHandler       commands.ConfirmAddressCommandHandler
	applyScanHandler            commands.ApplyScanCommandHandler
	markExceptionHandler        commands.MarkExceptionCommandHandler
	cancelOrderHandler          commands.CancelOrderCommandHandler
	markDeliveredHandler        commands.MarkDeliveredCommandHandler
	createManifestHandler       commands.CreateManifestCommandHandler
	handOverManifestHandler     commands.HandOverManifestCommandHandler
	createRouteHandler          commands.CreateRouteCommandHandler
	registerSubscriptionHandler commands.RegisterSubscriptionCommandHandler

	// Query handlers
	getOrderHandler                queries.GetOrderQueryHandler
	getOrderTimelineHandler        queries.GetOrderTimelineQueryHandler
	getPendingConfirmationsHandler queries.GetPendingConfirmationsQueryHandler
	getFailedDeliveriesHandler     queries.GetFailedDeliveriesQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	ingestOrderHandler commands.IngestOrderCommandHandler,
	requestVerificationHandler commands.RequestVerificationCommandHandler,
	confirmAddressHandler commands.ConfirmAddressCommandHandler,
	applyScanHandler commands.ApplyScanCommandHandler,
	markExceptionHandler commands.MarkExceptionCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	markDeliveredHandler commands.MarkDeliveredCommandHandler,
	createManifestHandler commands.CreateManifestCommandHandler,
	handOverManifestHandler commands.HandOverManifestCommandHandler,
	createRouteHandler commands.CreateRouteCommandHandler,
	registerSubscriptionHandler commands.RegisterSubscriptionCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOrderTimelineHandler queries.GetOrderTimelineQueryHandler,
	getPendingConfirmationsHandler queries.GetPendingConfirmationsQueryHandler,
	getFailedDeliveriesHandler queries.GetFailedDeliveriesQueryHandler,
) *Server {
	return &Server{
		ingestOrderHandler:             ingestOrderHandler,
		requestVerificationHandler:     requestVerificationHandler,
		confirmAddressHandler:          confirmAddressHandler,
		applyScanHandler:               applyScanHandler,
		markExceptionHandler:           markExceptionHandler,
		cancelOrderHandler:             cancelOrderHandler,
		markDeliveredHandler:           markDeliveredHandler,
		createManifestHandler:          createManifestHandler,
		handOverManifestHandler:        handOverManifestHandler,
		createRouteHandler:             createRouteHandler,
		registerSubscriptionHandler:    registerSubscriptionHandler,
		getOrderHandler:                getOrderHandler,
		getOrderTimelineHandler:        getOrderTimelineHandler,
		getPendingConfirmationsHandler: getPendingConfirmationsHandler,
		getFailedDeliveriesHandler:     getFailedDeliveriesHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.IngestOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.GET("/orders/:orderId/timeline", s.GetOrderTimeline)
	api.POST("/orders/:orderId/verification", s.RequestVerification)
	api.POST("/orders/:orderId/confirmation", s.ConfirmAddress)
	api.POST("/orders/:orderId/exception", s.MarkException)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/delivered", s.MarkDelivered)

	api.POST("/scans", s.ApplyScan)
	api.GET("/confirmations/pending", s.GetPendingConfirmations)

	api.POST("/subscriptions", s.RegisterSubscription)
	api.GET("/deliveries/failed", s.GetFailedDeliveries)

	api.POST("/manifests", s.CreateManifest)
	api.POST("/manifests/:manifestId/handover", s.HandOverManifest)
	api.POST("/routes", s.CreateRoute)
}

// IngestOrder handles POST /api/v1/orders - ingests one upstream order.
func (s *Server) IngestOrder(ctx echo.Context) error {
	var req IngestOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "Invalid request body")
	}

	address, err := addressFromPayload(req.Address)
	if err != nil {
		return writeError(ctx, err)
	}

	value, err := kernel.NewMoney(req.Value.Amount, req.Value.Currency)
	if err != nil {
		return writeError(ctx, err)
	}

	priority := order.Priority(req.Priority)
	if req.Priority == "" {
		priority = order.PriorityMedium
	}

	lines := make([]commands.IngestLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = commands.IngestLine{SKU: line.SKU, Bin: line.Bin, Qty: line.Qty}
	}
	totes := make([]commands.IngestTote, len(req.Totes))
	for i, tote := range req.Totes {
		totes[i] = commands.IngestTote{Tote: tote}
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewIngestOrderCommand(
		orderID, req.Reference, req.Channel, req.SourceNumber, req.Contact,
		req.Shortcode, address, value, priority, lines, totes)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.ingestOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, IDResponse{ID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/:orderId - the order status projection.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := uuidFromParam(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	projection, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderResponse{
		ID:                  projection.ID.String(),
		Reference:           projection.Reference,
		Channel:             projection.Channel,
		SourceNumber:        projection.SourceNumber,
		Status:              projection.Status,
		Priority:            projection.Priority,
		VerificationOutcome: projection.VerificationOutcome,
		ExceptionReason:     projection.ExceptionReason,
		Courier:             projection.Courier,
		AWB:                 projection.AWB,
		CreatedAt:           projection.CreatedAt,
	})
}

// GetOrderTimeline handles GET /api/v1/orders/:orderId/timeline - the order's
// event history, oldest first.
func (s *Server) GetOrderTimeline(ctx echo.Context) error {
	orderID, err := uuidFromParam(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderTimelineQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	events, err := s.getOrderTimelineHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]TimelineEventResponse, len(events))
	for i, e := range events {
		response[i] = TimelineEventResponse{
			EventID:     e.EventID.String(),
			EventType:   e.EventType,
			Description: e.Description,
			Source:      e.Source,
			OccurredAt:  e.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RequestVerification handles POST /api/v1/orders/:orderId/verification -
// opens an address verification attempt for the order.
func (s *Server) RequestVerification(ctx echo.Context) error {
	orderID, err := uuidFromParam(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	var req RequestVerificationRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRequestVerificationCommand(orderID, req.Shortcode)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.requestVerificationHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// ConfirmAddress handles POST /api/v1/orders/:orderId/confirmation - the
// customer's reply to a confirmation prompt. An empty body accepts the
// suggested address.
func (s *Server) ConfirmAddress(ctx echo.Context) error {
	orderID, err := uuidFromParam(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	var req ConfirmAddressRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "Invalid request body")
	}

	var address *kernel.Address
	if req.Address != nil {
		corrected, addrErr := addressFromPayload(*req.Address)
		if addrErr != nil {
			return writeError(ctx, addrErr)
		}
		address = &corrected
	}

	cmd, err := commands.NewConfirmAddressCommand(orderID, address)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.confirmAddressHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ApplyScan handles POST /api/v1/scans - routes one scanner gun read to the
// order owning the code.
func (s *Server) ApplyScan(ctx echo.Context) error {
	var req ScanRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewApplyScanCommand(req.Code, order.ScanContext(req.Context), req.ActorID)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.applyScanHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkException handles POST /api/v1/orders/:orderId/exception - parks the
// order for operator attention.
func (s *Server) MarkException(ctx echo.Context) error {
	orderID, err := uuidFromParam(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	var req MarkExceptionRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewMarkExceptionCommand(orderID, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.markExceptionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := uuidFromParam(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkDelivered handles POST /api/v1/orders/:orderId/delivered - the courier's
// proof-of-delivery callback.
func (s *Server) MarkDelivered(ctx echo.Context) error {
	orderID, err := uuidFromParam(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewMarkDeliveredCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.markDeliveredHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetPendingConfirmations handles GET /api/v1/confirmations/pending - attempts
// awaiting a customer reply, nearest deadline first.
func (s *Server) GetPendingConfirmations(ctx echo.Context) error {
	query := queries.NewGetPendingConfirmationsQuery()

	confirmations, err := s.getPendingConfirmationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]PendingConfirmationResponse, len(confirmations))
	for i, c := range confirmations {
		response[i] = PendingConfirmationResponse{
			AttemptID:      c.AttemptID.String(),
			OrderID:        c.OrderID.String(),
			OrderReference: c.OrderReference,
			Contact:        c.Contact,
			Shortcode:      c.Shortcode,
			RequestedAt:    c.RequestedAt,
			Deadline:       c.Deadline,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterSubscription handles POST /api/v1/subscriptions - registers a
// webhook subscriber.
func (s *Server) RegisterSubscription(ctx echo.Context) error {
	var req RegisterSubscriptionRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "Invalid request body")
	}

	subscriptionID := kernel.NewUUID()
	cmd, err := commands.NewRegisterSubscriptionCommand(subscriptionID, req.Name, req.TargetURL)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.registerSubscriptionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, IDResponse{ID: subscriptionID.String()})
}

// GetFailedDeliveries handles GET /api/v1/deliveries/failed - dead-lettered
// webhook deliveries, most recent first.
func (s *Server) GetFailedDeliveries(ctx echo.Context) error {
	query := queries.NewGetFailedDeliveriesQuery()

	deliveries, err := s.getFailedDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]FailedDeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		response[i] = FailedDeliveryResponse{
			DeliveryID:     d.DeliveryID.String(),
			SubscriptionID: d.SubscriptionID.String(),
			EventID:        d.EventID.String(),
			TargetURL:      d.TargetURL,
			AttemptCount:   d.AttemptCount,
			LastError:      d.LastError,
			CreatedAt:      d.CreatedAt,
			CompletedAt:    d.CompletedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateManifest handles POST /api/v1/manifests - opens a courier manifest
// over packed orders.
func (s *Server) CreateManifest(ctx echo.Context) error {
	var req CreateManifestRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "Invalid request body")
	}

	orderIDs, err := uuidsFromStrings(req.OrderIDs)
	if err != nil {
		return writeError(ctx, err)
	}

	manifestID := kernel.NewUUID()
	cmd, err := commands.NewCreateManifestCommand(manifestID, req.Courier, orderIDs)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.createManifestHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, IDResponse{ID: manifestID.String()})
}

// HandOverManifest handles POST /api/v1/manifests/:manifestId/handover -
// hands the manifest's orders to the courier and ships them.
func (s *Server) HandOverManifest(ctx echo.Context) error {
	manifestID, err := uuidFromParam(ctx, "manifestId")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewHandOverManifestCommand(manifestID)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.handOverManifestHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateRoute handles POST /api/v1/routes - opens a delivery route over
// shipped orders.
func (s *Server) CreateRoute(ctx echo.Context) error {
	var req CreateRouteRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "Invalid request body")
	}

	orderIDs, err := uuidsFromStrings(req.OrderIDs)
	if err != nil {
		return writeError(ctx, err)
	}

	routeID := kernel.NewUUID()
	cmd, err := commands.NewCreateRouteCommand(routeID, req.Driver, req.Vehicle, orderIDs)
	if err != nil {
		return writeError(ctx, err)
	}

	if handleErr := s.createRouteHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, IDResponse{ID: routeID.String()})
}

func addressFromPayload(payload AddressPayload) (kernel.Address, error) {
	address, err := kernel.NewAddress(
		payload.Line1, payload.Line2, payload.City,
		payload.Region, payload.PostalCode, payload.Country)
	if err != nil {
		return kernel.Address{}, err
	}

	if payload.Lat != nil && payload.Lng != nil {
		point, pointErr := kernel.NewGeoPoint(*payload.Lat, *payload.Lng)
		if pointErr != nil {
			return kernel.Address{}, pointErr
		}
		return address.WithGeoPoint(point)
	}

	return address, nil
}

func uuidFromParam(ctx echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func uuidsFromStrings(values []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, len(values))
	for i, value := range values {
		id, err := kernel.UUIDFromString(value)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("orderIds", err)
		}
		ids[i] = id
	}
	return ids, nil
}
