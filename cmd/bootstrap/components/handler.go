package components

import (
	"car-rental-backend/internal/handler"
	"car-rental-backend/internal/handler/api"
	"car-rental-backend/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewVehicleHandler,
		api.NewLoyaltyHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
