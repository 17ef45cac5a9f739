package availability

import (
	"meetsync/core/middleware"
	"meetsync/modules/availability/controller"
	"meetsync/modules/availability/router"
	"meetsync/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes. The busy
// provider and prefetch enqueuer are supplied by the calendar module.
func Init(e *echo.Echo, mw *middleware.Middleware, provider service.BusyProvider, prefetch service.PrefetchEnqueuer) service.AvailabilityServiceInterface {
	svc := service.NewAvailabilityService(provider, prefetch)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
