package handler

import (
	"io"
	"net/http"
	"strconv"

	"minimart/internal/config"
	"minimart/internal/middleware"
	"minimart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products のHTTP。作成・更新はmultipart（画像が付けられる）
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("", middleware.AuthJWT(cfg))

	g.POST("/products", h.create, middleware.AdminOnly())
	g.PUT("/products/:id", h.update, middleware.AdminOnly())
	g.DELETE("/products/:id", h.remove, middleware.AdminOnly())
	g.GET("/products/my", h.listMine, middleware.AdminOnly())

	g.GET("/shops/:id/products", h.listByShop)
	g.GET("/products/city/:city", h.listByCity)
}

func (h *ProductHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	in, closeFn, err := bindProductForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	defer closeFn()

	out, err := h.uc.CreateProduct(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	in, closeFn, err := bindProductForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	defer closeFn()

	out, err := h.uc.UpdateProduct(c.Request().Context(), userID, productID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) remove(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), userID, productID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted"})
}

func (h *ProductHandler) listMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyProducts(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) listByShop(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ListByShop(c.Request().Context(), shopID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) listByCity(c echo.Context) error {
	out, err := h.uc.ListByCity(c.Request().Context(), c.Param("city"), c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// multipartフォームからProductInputを組み立てる。
// imageフィールドは任意。closeFnは必ず呼ぶこと
func bindProductForm(c echo.Context) (usecase.ProductInput, func(), error) {
	closeFn := func() {}

	price, err := strconv.ParseInt(c.FormValue("price"), 10, 64)
	if err != nil {
		return usecase.ProductInput{}, closeFn, err
	}

	var stock int64
	if v := c.FormValue("quantity_in_stock"); v != "" {
		stock, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return usecase.ProductInput{}, closeFn, err
		}
	}

	var discount *int64
	if v := c.FormValue("discount_percentage"); v != "" {
		d, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return usecase.ProductInput{}, closeFn, err
		}
		discount = &d
	}

	featured := c.FormValue("featured") == "true"

	in := usecase.ProductInput{
		Name:               c.FormValue("name"),
		Price:              price,
		Stock:              stock,
		Category:           c.FormValue("category"),
		DiscountPercentage: discount,
		Featured:           featured,
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return usecase.ProductInput{}, closeFn, err
		}
		in.Image = io.Reader(f)
		closeFn = func() { f.Close() }
	}

	return in, closeFn, nil
}
