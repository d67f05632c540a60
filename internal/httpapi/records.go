package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/export"
)

// maxExportPages caps how many backend pages one export walks.
const maxExportPages = 50

func (a *API) handleListSales(c *gin.Context) {
	var params domain.SaleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	page, err := a.service.ListSales(c.Request.Context(), params)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (a *API) handleGetSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sale, err := a.service.GetSale(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (a *API) handleCreateSale(c *gin.Context) {
	var req domain.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	sale, err := a.service.CreateSale(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (a *API) handleDeleteSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.service.DeleteSale(c.Request.Context(), id); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) handleCashierStatement(c *gin.Context) {
	var params domain.CashierStatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	statement, err := a.service.CashierStatement(c.Request.Context(), params)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

// handleExportSales follows the backend's pagination from the requested page
// and renders every sale it collects into one workbook.
func (a *API) handleExportSales(c *gin.Context) {
	var params domain.SaleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if params.Page < 1 {
		params.Page = 1
	}

	var sales []domain.Sale
	for i := 0; i < maxExportPages; i++ {
		page, err := a.service.ListSales(c.Request.Context(), params)
		if err != nil {
			a.writeError(c, err)
			return
		}
		sales = append(sales, page.Results...)
		if page.Next == nil || len(page.Results) == 0 {
			break
		}
		params.Page++
	}

	var buf bytes.Buffer
	if err := export.WriteSales(&buf, sales); err != nil {
		a.writeError(c, err)
		return
	}
	filename := "sales-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

func (a *API) handleListAttendance(c *gin.Context) {
	var params domain.AttendanceListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	page, err := a.service.ListAttendance(c.Request.Context(), params)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (a *API) handleUpsertAttendance(c *gin.Context) {
	var req domain.AttendanceUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	record, err := a.service.UpsertAttendance(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (a *API) handleUpdateAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req domain.AttendanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	record, err := a.service.UpdateAttendanceRecord(c.Request.Context(), id, req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (a *API) handleDeleteAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.service.DeleteAttendanceRecord(c.Request.Context(), id); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) handleAttendanceSummary(c *gin.Context) {
	summary, err := a.service.AttendanceDailySummary(c.Request.Context(), c.Query("date"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (a *API) handleListAuditLogs(c *gin.Context) {
	var params domain.AuditLogListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	page, err := a.service.ListAuditLogs(c.Request.Context(), params)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
