package cmd

import (
	"mealmatch/internal/adapters/out/postgres"
	"mealmatch/internal/adapters/out/redispub"
	"mealmatch/internal/core/application/usecases/commands"
	"mealmatch/internal/core/application/usecases/queries"
	"mealmatch/internal/core/domain/services"
	"mealmatch/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	matcher    services.ProviderMatcher
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  redispub.NewPublisher(configs.RedisHost, configs.RedisEventChannel),
		matcher:    services.NewProviderMatcher(),
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrderCommandHandler(f, c.matcher, c.publisher)
}

func (c *CompositionRoot) CreateAssignManuallyCommandHandler() commands.AssignManuallyCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignManuallyCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateReassignOrderCommandHandler() commands.ReassignOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReassignOrderCommandHandler(f, c.matcher, c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterProviderCommandHandler() commands.RegisterProviderCommandHandler {
	var f commands.ProviderUoWFactory = FuncProviderUoWFactory(func() commands.ProviderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterProviderCommandHandler(f)
}

func (c *CompositionRoot) CreateSetProviderAvailabilityCommandHandler() commands.SetProviderAvailabilityCommandHandler {
	var f commands.ProviderUoWFactory = FuncProviderUoWFactory(func() commands.ProviderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetProviderAvailabilityCommandHandler(f)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetProvidersQueryHandler() queries.GetProvidersQueryHandler {
	return queries.NewGetProvidersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderAssignmentQueryHandler() queries.GetOrderAssignmentQueryHandler {
	return queries.NewGetOrderAssignmentQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncProviderUoWFactory func() commands.ProviderUoW

func (f FuncProviderUoWFactory) Create() commands.ProviderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
