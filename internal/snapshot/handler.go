package snapshot

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func RegisterRoutes(public, admin gin.IRoutes, svc *Service) {
	h := NewHandler(svc)
	public.GET("/snapshot", h.exportSnapshot)
	public.GET("/snapshot/attendance.csv", h.attendanceCSV)
	admin.POST("/snapshot", h.importSnapshot)
}

func (h *Handler) exportSnapshot(c *gin.Context) {
	f, err := h.svc.Export(c.Request.Context())
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	name := fmt.Sprintf("attendance-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.JSON(http.StatusOK, f)
}

func (h *Handler) importSnapshot(c *gin.Context) {
	var f File
	if err := c.ShouldBindJSON(&f); err != nil {
		e := apierr.Invalid("스냅샷 JSON을 읽을 수 없습니다: " + err.Error())
		c.JSON(apierr.HTTPStatus(e), apierr.DTO(e))
		return
	}
	sum, err := h.svc.Import(c.Request.Context(), &f)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) attendanceCSV(c *gin.Context) {
	now := time.Now()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))

	data, err := h.svc.AttendanceCSV(c.Request.Context(), year, month, c.Query("scope"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	name := fmt.Sprintf("attendance-%04d-%02d.csv", year, month)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=euc-kr", data)
}
