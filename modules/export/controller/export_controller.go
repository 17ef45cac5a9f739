package controller

import (
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/modules/export/dto"
	"meetsync/modules/export/service"

	"github.com/labstack/echo/v4"
)

// ExportController handles slot export requests
type ExportController struct {
	controller.BaseController
	ExportService service.ExportService
}

// NewExportController creates a new controller
func NewExportController(svc service.ExportService) *ExportController {
	return &ExportController{
		BaseController: controller.NewBaseController(),
		ExportService:  svc,
	}
}

// ExportSlots handles POST /export/slots
// @Summary Export computed slots as text
// @Description Render merged slots as a shareable plain-text document, optionally stored
// @Tags Export
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ExportSlotsRequest true "Title and day blocks"
// @Success 200 {object} dto.ExportSlotsResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/export/slots [post]
func (c *ExportController) ExportSlots(ctx echo.Context) error {
	var req dto.ExportSlotsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ExportService.ExportSlots(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Slots exported")
}
