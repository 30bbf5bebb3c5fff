package controller

import (
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/modules/upload/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UploadController struct {
	controller.BaseController
	UploadService service.UploadServiceInterface
}

func NewUploadController(svc service.UploadServiceInterface) *UploadController {
	return &UploadController{
		BaseController: controller.NewBaseController(),
		UploadService:  svc,
	}
}

// UploadFile handles POST /uploads
// @Summary Upload a file to S3
// @Tags Uploads
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param company_id formData string true "Company ID"
// @Param file formData file true "File to upload"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} errors.AppError
// @Router /private/uploads [post]
func (c *UploadController) UploadFile(ctx echo.Context) error {
	companyID, err := uuid.Parse(ctx.FormValue("company_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Missing file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Unreadable file")
	}
	defer src.Close()

	result, appErr := c.UploadService.UploadFile(
		ctx.Request().Context(),
		companyID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
	)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "File uploaded")
}

// DeleteFile handles DELETE /uploads
// @Summary Delete an uploaded file
// @Tags Uploads
// @Security BearerAuth
// @Produce json
// @Param key query string true "Object key"
// @Success 200 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Router /private/uploads [delete]
func (c *UploadController) DeleteFile(ctx echo.Context) error {
	key := ctx.QueryParam("key")
	if key == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing object key")
	}

	if appErr := c.UploadService.DeleteFile(ctx.Request().Context(), key); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "File deleted")
}
