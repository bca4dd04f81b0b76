package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"assetverse/internal/errors"
	"assetverse/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AssetHandler handles inventory endpoints.
type AssetHandler struct {
	svc service.AssetService
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(svc service.AssetService) *AssetHandler {
	return &AssetHandler{svc: svc}
}

// CreateAssetRequest represents a new inventory item.
type CreateAssetRequest struct {
	ProductName     string `json:"productName" validate:"required,max=255"`
	ProductType     string `json:"productType" validate:"required,max=50"`
	ProductImage    string `json:"productImage" validate:"omitempty,url"`
	ProductQuantity int    `json:"productQuantity" validate:"gte=0"`
}

// UpdateAssetRequest carries the editable asset fields. Omitted fields stay unchanged.
type UpdateAssetRequest struct {
	ProductName     *string `json:"productName" validate:"omitempty,min=1,max=255"`
	ProductType     *string `json:"productType" validate:"omitempty,min=1,max=50"`
	ProductImage    *string `json:"productImage" validate:"omitempty,url"`
	ProductQuantity *int    `json:"productQuantity" validate:"omitempty,gte=0"`
}

// Create godoc
// @Summary Add an asset to the caller's inventory
// @Tags assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAssetRequest true "Asset data"
// @Success 201 {object} model.Asset
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /assets [post]
func (h *AssetHandler) Create(c echo.Context) error {
	var req CreateAssetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}

	asset, err := h.svc.Create(c.Request().Context(), p, service.CreateAssetInput{
		ProductName:     req.ProductName,
		ProductType:     req.ProductType,
		ProductImage:    req.ProductImage,
		ProductQuantity: req.ProductQuantity,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, asset)
}

// List godoc
// @Summary List assets visible to the caller
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Asset
// @Failure 401 {object} errors.ErrorResponse
// @Router /assets [get]
func (h *AssetHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	assets, err := h.svc.List(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, assets)
}

// SearchPublic godoc
// @Summary Search the public asset catalog
// @Tags assets
// @Produce json
// @Param searchText query string false "Case-insensitive name filter"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param skip query int false "Offset"
// @Success 200 {object} service.SearchResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /assets/public [get]
func (h *AssetHandler) SearchPublic(c echo.Context) error {
	var (
		text        string
		limit, skip int
	)
	err := echo.QueryParamsBinder(c).
		String("searchText", &text).
		Int("limit", &limit).
		Int("skip", &skip).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "limit and skip must be integers",
			Code:  "VALIDATION_ERROR",
		})
	}

	result, err := h.svc.SearchPublic(c.Request().Context(), text, limit, skip)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Update godoc
// @Summary Edit an asset
// @Tags assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Param request body UpdateAssetRequest true "Asset fields"
// @Success 200 {object} model.Asset
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /assets/{id} [patch]
func (h *AssetHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateAssetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}

	asset, err := h.svc.Update(c.Request().Context(), p, id, service.UpdateAssetInput{
		ProductName:     req.ProductName,
		ProductType:     req.ProductType,
		ProductImage:    req.ProductImage,
		ProductQuantity: req.ProductQuantity,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, asset)
}

// Delete godoc
// @Summary Delete an asset
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), p, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "asset deleted"})
}

// Export godoc
// @Summary Download the caller's inventory as a spreadsheet
// @Tags assets
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 403 {object} errors.ErrorResponse
// @Router /assets/export [get]
func (h *AssetHandler) Export(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	buf, err := h.svc.Export(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}

	name := fmt.Sprintf("assets-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
