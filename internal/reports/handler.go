package reports

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/reports/weekly", h.Weekly)
	r.GET("/reports/weeks", h.Weeks)
	r.GET("/reports/yearly", h.Yearly)
}

// GET /reports/weekly?week=&scope=
func (h *Handler) Weekly(c *gin.Context) {
	counts, err := h.svc.WeeklyCounts(c.Request.Context(), c.DefaultQuery("scope", "all"), c.Query("week"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GET /reports/weeks?year=&month=
func (h *Handler) Weeks(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	weeks, err := h.svc.MonthWeeks(year, month)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"weeks": weeks})
}

// GET /reports/yearly?year=&scope=
func (h *Handler) Yearly(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	rates, err := h.svc.YearlyRates(c.Request.Context(), year, c.DefaultQuery("scope", "all"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": rates})
}
