package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"minimart/internal/config"
	"minimart/internal/middleware"
	"minimart/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/tealeg/xlsx"
)

// 店舗側 /orders/shop のHTTP
type ShopOrderHandler struct {
	uc *usecase.ShopOrderUsecase
}

// DI
func NewShopOrderHandler(uc *usecase.ShopOrderUsecase) *ShopOrderHandler {
	return &ShopOrderHandler{uc: uc}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ShopOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminOnly())

	g.GET("/shop", h.listShopOrders)
	g.GET("/shop/export", h.exportShopOrders)
	g.PUT("/:id/status", h.updateStatus)
}

func (h *ShopOrderHandler) listShopOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListShopOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShopOrderHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), userID, orderID, usecase.UpdateStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// xlsxで注文一覧をダウンロードさせる
func (h *ShopOrderHandler) exportShopOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orders, err := h.uc.ListShopOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	buf, err := buildOrdersWorkbook(orders)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "export failed"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

func buildOrdersWorkbook(orders []usecase.ShopOrderOutput) (*bytes.Buffer, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, title := range []string{"Order ID", "Date", "Customer", "City", "Status", "Items", "Shop Total"} {
		header.AddCell().Value = title
	}

	for _, o := range orders {
		var itemCount int64 = 0
		for _, it := range o.Items {
			itemCount += it.Quantity
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderID)
		row.AddCell().Value = o.CreatedAt.Format("2006-01-02")
		row.AddCell().Value = o.CustomerName
		row.AddCell().Value = o.CustomerCity
		row.AddCell().Value = o.Status
		row.AddCell().SetValue(itemCount)
		row.AddCell().SetValue(o.ShopSpecificTotal)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
