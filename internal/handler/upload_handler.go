package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"assetverse/internal/errors"
	"assetverse/internal/storage"
)

// UploadHandler stores product images and company logos.
type UploadHandler struct {
	uploader storage.Uploader
}

// NewUploadHandler creates a new upload handler. A nil uploader disables uploads.
func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// UploadResponse carries the public URL of a stored file.
type UploadResponse struct {
	URL string `json:"url"`
}

// Upload godoc
// @Summary Upload an image
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PNG, JPEG, GIF or WebP image up to 5 MiB"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	if h.uploader == nil {
		return fail(c, errors.ErrFeatureDisabled)
	}

	header, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "multipart field \"file\" is required",
			Code:  "VALIDATION_ERROR",
		})
	}
	file, err := header.Open()
	if err != nil {
		return fail(c, err)
	}
	defer file.Close()

	img, err := storage.SniffImage(file, header.Size)
	if err != nil {
		if !stderrors.Is(err, errors.ErrInvalidInput) {
			return fail(c, err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	url, err := h.uploader.Upload(c.Request().Context(), img)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, UploadResponse{URL: url})
}
