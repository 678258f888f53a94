package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growshop/admin-console/internal/api/metrics"
	"github.com/growshop/admin-console/internal/core/ports"
)

// ProductHandler exposes the product table and its CRUD passthrough.
type ProductHandler struct {
	service ports.AdminService
}

func NewProductHandler(service ports.AdminService) *ProductHandler {
	return &ProductHandler{service: service}
}

// tableCommand builds a view command from the request's query parameters.
// "search" distinguishes absent from empty: an empty value clears the filter,
// an absent key leaves it alone.
func tableCommand(c echo.Context) ports.TableCommand {
	cmd := ports.TableCommand{
		Sort: c.QueryParam("sort"),
		Dir:  c.QueryParam("dir"),
		Page: c.QueryParam("page"),
	}
	if params := c.QueryParams(); params.Has("search") {
		s := params.Get("search")
		cmd.Search = &s
	}
	return cmd
}

// List computes one page of the product table.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Filter by title or category substring"
// @Param        sort    query     string  false  "Sort column; repeating the active column flips direction"
// @Param        dir     query     string  false  "Explicit sort direction: asc or desc"
// @Param        page    query     string  false  "Page number, or 'next'/'prev'"
// @Success      200     {object}  productPageResponse
// @Failure      401     {object}  map[string]string
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	view, err := h.service.ProductTable(c.Request().Context(), sid, tableCommand(c))
	if err != nil {
		return err
	}
	metrics.TableQueriesTotal.WithLabelValues("products").Inc()
	if view.Stale {
		metrics.StaleViewsTotal.Inc()
	}

	return c.JSON(http.StatusOK, productPageResponse{
		Rows:        view.Page.Rows,
		TotalItems:  view.Page.TotalItems,
		TotalPages:  view.Page.TotalPages,
		CurrentPage: view.Page.CurrentPage,
		PageSize:    view.Page.PageSize,
		Sort:        view.Sort,
		Query:       view.Query,
		Stale:       view.Stale,
	})
}

// Create validates and submits a new product, then reloads the collection.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product fields"
// @Success      201   {object}  statusResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.service.CreateProduct(c.Request().Context(), sid, req.toInput()); err != nil {
		metrics.MutationsTotal.WithLabelValues("create_product", "error").Inc()
		return err
	}
	metrics.MutationsTotal.WithLabelValues("create_product", "success").Inc()
	return c.JSON(http.StatusCreated, statusResponse{Status: "created"})
}

// Update validates and patches an existing product, then reloads.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product fields"
// @Success      200   {object}  statusResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/products/{id} [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.service.UpdateProduct(c.Request().Context(), sid, c.Param("id"), req.toInput()); err != nil {
		metrics.MutationsTotal.WithLabelValues("update_product", "error").Inc()
		return err
	}
	metrics.MutationsTotal.WithLabelValues("update_product", "success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}

// Delete removes a product, then reloads.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Product id"
// @Success      200 {object}  statusResponse
// @Failure      404 {object}  map[string]string
// @Router       /v1/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.Request().Context(), sid, c.Param("id")); err != nil {
		metrics.MutationsTotal.WithLabelValues("delete_product", "error").Inc()
		return err
	}
	metrics.MutationsTotal.WithLabelValues("delete_product", "success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
