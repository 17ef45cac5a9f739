package export

import (
	"meetsync/core/middleware"
	"meetsync/modules/export/controller"
	"meetsync/modules/export/router"
	"meetsync/modules/export/service"

	"github.com/labstack/echo/v4"
)

// Init wires the export module and registers its routes. store may be nil
// when no export bucket is configured.
func Init(e *echo.Echo, mw *middleware.Middleware, store service.ObjectStore) service.ExportService {
	svc := service.NewExportService(store)
	ctrl := controller.NewExportController(svc)
	rtr := router.NewExportRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
