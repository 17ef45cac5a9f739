package calendar

import (
	"meetsync/core/cache"
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/calendar/controller"
	"meetsync/modules/calendar/repository"
	"meetsync/modules/calendar/router"
	"meetsync/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init wires the calendar module and registers its routes. The returned
// service doubles as the availability engine's busy provider.
func Init(e *echo.Echo, db database.IDatabase, c *cache.Cache, cipher *service.TokenCipher, mw *middleware.Middleware) service.CalendarService {
	repo := repository.NewCalendarRepository(db)
	svc := service.NewCalendarService(repo, c, cipher)
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
