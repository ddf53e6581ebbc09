// Package http exposes the assignment engine over a REST API.
// It coordinates between HTTP handlers and application use cases; all
// business rules live in the command and query handlers.
package http

import (
	"errors"
	"net/http"

	"mealmatch/internal/core/application/usecases/commands"
	"mealmatch/internal/core/application/usecases/queries"
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server handles HTTP requests for the assignment engine.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	assignOrderHandler      commands.AssignOrderCommandHandler
	assignManuallyHandler   commands.AssignManuallyCommandHandler
	reassignOrderHandler    commands.ReassignOrderCommandHandler
	cancelOrderHandler      commands.CancelOrderCommandHandler
	confirmOrderHandler     commands.ConfirmOrderCommandHandler
	completeOrderHandler    commands.CompleteOrderCommandHandler
	registerProviderHandler commands.RegisterProviderCommandHandler
	setAvailabilityHandler  commands.SetProviderAvailabilityCommandHandler

	// Query handlers
	getPendingOrdersHandler   queries.GetPendingOrdersQueryHandler
	getProvidersHandler       queries.GetProvidersQueryHandler
	getOrderAssignmentHandler queries.GetOrderAssignmentQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	assignManuallyHandler commands.AssignManuallyCommandHandler,
	reassignOrderHandler commands.ReassignOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	confirmOrderHandler commands.ConfirmOrderCommandHandler,
	completeOrderHandler commands.CompleteOrderCommandHandler,
	registerProviderHandler commands.RegisterProviderCommandHandler,
	setAvailabilityHandler commands.SetProviderAvailabilityCommandHandler,
	getPendingOrdersHandler queries.GetPendingOrdersQueryHandler,
	getProvidersHandler queries.GetProvidersQueryHandler,
	getOrderAssignmentHandler queries.GetOrderAssignmentQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		assignOrderHandler:        assignOrderHandler,
		assignManuallyHandler:     assignManuallyHandler,
		reassignOrderHandler:      reassignOrderHandler,
		cancelOrderHandler:        cancelOrderHandler,
		confirmOrderHandler:       confirmOrderHandler,
		completeOrderHandler:      completeOrderHandler,
		registerProviderHandler:   registerProviderHandler,
		setAvailabilityHandler:    setAvailabilityHandler,
		getPendingOrdersHandler:   getPendingOrdersHandler,
		getProvidersHandler:       getProvidersHandler,
		getOrderAssignmentHandler: getOrderAssignmentHandler,
	}
}

// RegisterRoutes attaches all API routes to the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/pending", s.GetPendingOrders)
	api.POST("/orders/:id/assign", s.AssignOrder)
	api.POST("/orders/:id/reassign", s.ReassignOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/confirm", s.ConfirmOrder)
	api.POST("/orders/:id/complete", s.CompleteOrder)
	api.GET("/orders/:id/assignment", s.GetOrderAssignment)
	api.POST("/providers", s.CreateProvider)
	api.GET("/providers", s.GetProviders)
	api.PUT("/providers/:id/availability", s.SetProviderAvailability)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - order intake.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userID, err := kernel.UUIDFromString(body.UserID)
	if err != nil {
		return badRequest(ctx, "Invalid user ID: "+err.Error())
	}

	kind, err := kernel.MealKindFromString(body.Kind)
	if err != nil {
		return badRequest(ctx, "Invalid meal kind: "+err.Error())
	}

	zone, err := kernel.NewZone(body.Zone)
	if err != nil {
		return badRequest(ctx, "Invalid zone: "+err.Error())
	}

	window, err := kernel.NewDeliveryWindow(body.WindowStart, body.WindowEnd)
	if err != nil {
		return badRequest(ctx, "Invalid delivery window: "+err.Error())
	}

	total, err := kernel.NewMoney(body.TotalCents)
	if err != nil {
		return badRequest(ctx, "Invalid total: "+err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, userID, kind, zone, window, total)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return internalError(ctx, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
}

// GetPendingOrders handles GET /api/v1/orders/pending - the pending queue.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	query := queries.NewGetPendingOrdersQuery()

	orders, err := s.getPendingOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve pending orders")
	}

	response := make([]PendingOrder, len(orders))
	for i, o := range orders {
		response[i] = PendingOrder{
			ID:          o.ID.String(),
			UserID:      o.UserID.String(),
			Kind:        o.Kind.String(),
			Zone:        o.Zone.Code(),
			WindowStart: o.Window.Start(),
			WindowEnd:   o.Window.End(),
			TotalCents:  o.Total.Cents(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AssignOrder handles POST /api/v1/orders/:id/assign - match an order to a
// provider. An empty body lets the engine pick; a body naming a provider_id
// is an operator override.
func (s *Server) AssignOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	var body ManualAssign
	_ = ctx.Bind(&body)

	if body.ProviderID != "" {
		return s.assignManually(ctx, orderID, body.ProviderID)
	}

	cmd, err := commands.NewAssignOrderCommandForOrder(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment request: "+err.Error())
	}

	err = s.assignOrderHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, commands.ErrNoEligibleProviderFound):
		return conflict(ctx, "No eligible provider available")
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	default:
		return conflict(ctx, "Failed to assign order: "+err.Error())
	}
}

func (s *Server) assignManually(ctx echo.Context, orderID kernel.UUID, rawProviderID string) error {
	providerID, err := kernel.UUIDFromString(rawProviderID)
	if err != nil {
		return badRequest(ctx, "Invalid provider ID: "+err.Error())
	}

	cmd, err := commands.NewAssignManuallyCommand(orderID, providerID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment request: "+err.Error())
	}

	err = s.assignManuallyHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, commands.ErrProviderNotEligible):
		return conflict(ctx, "Provider is not eligible for this order")
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order or provider not found")
	default:
		return conflict(ctx, "Failed to assign order: "+err.Error())
	}
}

// ReassignOrder handles POST /api/v1/orders/:id/reassign - move an order to a
// different provider.
func (s *Server) ReassignOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	cmd, err := commands.NewReassignOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid reassignment request: "+err.Error())
	}

	err = s.reassignOrderHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, commands.ErrNoEligibleProviderFound):
		return conflict(ctx, "No alternative provider available")
	case errors.Is(err, commands.ErrOrderIsNotAssigned):
		return conflict(ctx, "Order has no provider to move away from")
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	default:
		return conflict(ctx, "Failed to reassign order: "+err.Error())
	}
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation request: "+err.Error())
	}

	err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	default:
		return conflict(ctx, "Failed to cancel order: "+err.Error())
	}
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	cmd, err := commands.NewConfirmOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid confirmation request: "+err.Error())
	}

	err = s.confirmOrderHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	default:
		return conflict(ctx, "Failed to confirm order: "+err.Error())
	}
}

// CompleteOrder handles POST /api/v1/orders/:id/complete.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid completion request: "+err.Error())
	}

	err = s.completeOrderHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	default:
		return conflict(ctx, "Failed to complete order: "+err.Error())
	}
}

// GetOrderAssignment handles GET /api/v1/orders/:id/assignment.
func (s *Server) GetOrderAssignment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	query, err := queries.NewGetOrderAssignmentQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment lookup: "+err.Error())
	}

	a, err := s.getOrderAssignmentHandler.Handle(ctx.Request().Context(), query)
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order has no active assignment")
	default:
		return internalError(ctx, "Failed to retrieve assignment")
	}

	return ctx.JSON(http.StatusOK, Assignment{
		ID:           a.ID.String(),
		OrderID:      a.OrderID.String(),
		ProviderID:   a.ProviderID.String(),
		ProviderName: a.ProviderName,
		CreatedAt:    a.CreatedAt,
		Rationale:    a.Rationale,
	})
}

// CreateProvider handles POST /api/v1/providers - provider registration.
func (s *Server) CreateProvider(ctx echo.Context) error {
	var body NewProvider
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	kind, err := kernel.MealKindFromString(body.Kind)
	if err != nil {
		return badRequest(ctx, "Invalid meal kind: "+err.Error())
	}

	zone, err := kernel.NewZone(body.Zone)
	if err != nil {
		return badRequest(ctx, "Invalid zone: "+err.Error())
	}

	providerID := kernel.NewUUID()
	cmd, err := commands.NewRegisterProviderCommand(
		providerID, body.Name, kind, zone, body.Rating, body.MaxCapacity, body.Specialties,
	)
	if err != nil {
		return badRequest(ctx, "Invalid provider data: "+err.Error())
	}

	if err = s.registerProviderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, errs.ErrValueIsOutOfRange) || errors.Is(err, errs.ErrValueIsRequired) ||
			errors.Is(err, errs.ErrValueIsInvalid) {
			return badRequest(ctx, "Invalid provider data: "+err.Error())
		}
		return conflict(ctx, "Failed to register provider")
	}

	return ctx.JSON(http.StatusCreated, ProviderCreated{ID: providerID.String()})
}

// GetProviders handles GET /api/v1/providers - the provider registry.
func (s *Server) GetProviders(ctx echo.Context) error {
	query := queries.NewGetProvidersQuery()

	providers, err := s.getProvidersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve providers")
	}

	response := make([]Provider, len(providers))
	for i, p := range providers {
		response[i] = Provider{
			ID:          p.ID.String(),
			Name:        p.Name,
			Kind:        p.Kind.String(),
			Zone:        p.Zone.Code(),
			Rating:      p.Rating,
			Specialties: p.Specialties,
			CurrentLoad: p.CurrentLoad,
			MaxCapacity: p.MaxCapacity,
			Available:   p.Available,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// SetProviderAvailability handles PUT /api/v1/providers/:id/availability.
func (s *Server) SetProviderAvailability(ctx echo.Context) error {
	providerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid provider ID: "+err.Error())
	}

	var body Availability
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetProviderAvailabilityCommand(providerID, body.Available)
	if err != nil {
		return badRequest(ctx, "Invalid availability request: "+err.Error())
	}

	err = s.setAvailabilityHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Provider not found")
	default:
		return internalError(ctx, "Failed to update availability")
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: message})
}

func conflict(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusConflict, Error{Code: http.StatusConflict, Message: message})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, Error{Code: http.StatusInternalServerError, Message: message})
}
