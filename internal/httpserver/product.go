package httpserver

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/service"
	"github.com/Skotchmaster/resale_market/internal/transport"
	"github.com/Skotchmaster/resale_market/internal/util"
	"github.com/Skotchmaster/resale_market/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	seller, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req transport.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "create_product_failed", "invalid body", err)
	}

	product, err := h.Svc.CreateProduct(ctx, seller, req)
	if err != nil {
		return fail(l, "create_product_failed", err, "cannot create product")
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *CatalogHTTP) ApproveProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.approve_product")

	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "approve_product_failed", "id is not a uuid", err)
	}

	product, err := h.Svc.ApproveProduct(ctx, id)
	if err != nil {
		return fail(l, "approve_product_failed", err, "cannot approve product")
	}

	l.Info("approve_product_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product approved successfully",
		"product": product,
	})
}

func (h *CatalogHTTP) RejectProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.reject_product")

	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "reject_product_failed", "id is not a uuid", err)
	}

	product, err := h.Svc.RejectProduct(ctx, id)
	if err != nil {
		return fail(l, "reject_product_failed", err, "cannot reject product")
	}

	l.Info("reject_product_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product rejected successfully",
		"product": product,
	})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "update_product_failed", "id is not a uuid", err)
	}

	var req transport.UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "update_product_failed", "invalid body", err)
	}

	product, err := h.Svc.UpdateProduct(ctx, actor, id, req)
	if err != nil {
		return fail(l, "update_product_failed", err, "cannot update product")
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "delete_product_failed", "id is not a uuid", err)
	}

	if err := h.Svc.DeleteProduct(ctx, actor, id); err != nil {
		return fail(l, "delete_product_failed", err, "cannot delete product")
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "get_product_failed", "id is not a uuid", err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err, "cannot get product")
	}

	return c.JSON(http.StatusOK, product)
}

// GetProducts serves the paginated catalog. Query parameters: status,
// category, seller, minPrice, maxPrice, page and limit.
func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	f, err := parseFilter(c)
	if err != nil {
		return badRequest(l, "get_products_failed", err.Error(), err)
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	result, err := h.Svc.ListProducts(ctx, f, page, limit)
	if err != nil {
		return fail(l, "get_products_failed", err, "cannot list products")
	}

	l.Info("get_products_success", "total", result.TotalProducts)
	return c.JSON(http.StatusOK, result)
}

func (h *CatalogHTTP) GetSellerProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_seller_products")

	seller, err := actorFrom(c)
	if err != nil {
		return err
	}

	products, err := h.Svc.ListSellerProducts(ctx, seller.ID)
	if err != nil {
		return fail(l, "get_seller_products_failed", err, "cannot list seller products")
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	result, err := h.Svc.SearchProducts(ctx, q, page, limit)
	if err != nil {
		return fail(l, "search_failed", err, "search failed")
	}

	l.Info("search_success", "q", q, "total", result.TotalProducts)
	return c.JSON(http.StatusOK, result)
}

type filterError string

func (e filterError) Error() string { return string(e) }

func parseFilter(c echo.Context) (models.ProductFilter, error) {
	f := models.ProductFilter{
		Status:   models.ProductStatus(c.QueryParam("status")),
		Category: c.QueryParam("category"),
	}
	if raw := c.QueryParam("seller"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, filterError("seller is not a uuid")
		}
		f.SellerID = &id
	}
	for name, dst := range map[string]**float64{"minPrice": &f.MinPrice, "maxPrice": &f.MaxPrice} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return f, filterError(name + " is not a number")
		}
		*dst = &v
	}
	return f, nil
}
