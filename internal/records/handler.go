package records

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(public, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	public.GET("/records/:kind", h.GetWeek)
	public.GET("/records/:kind/:subjectId", h.GetRecord)

	admin.PUT("/records/:kind/:subjectId/attendance", h.SetAttendance)
	admin.PUT("/records/:kind/:subjectId/notes", h.SetNotes)
	admin.POST("/records/:kind/:subjectId/prayer-requests", h.AppendPrayerRequest)
}

func (h *Handler) GetRecord(c *gin.Context) {
	rec, err := h.svc.GetRecord(c.Request.Context(), Kind(c.Param("kind")), c.Param("subjectId"), c.Query("week"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, rec.toDTO())
}

func (h *Handler) GetWeek(c *gin.Context) {
	recs, err := h.svc.GetWeek(c.Request.Context(), Kind(c.Param("kind")), c.Query("week"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	out := make(map[string]RecordDTO, len(recs))
	for id, r := range recs {
		out[id] = r.toDTO()
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) SetAttendance(c *gin.Context) {
	var req SetAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json or missing required fields")))
		return
	}
	rec, err := h.svc.SetAttendance(c.Request.Context(), Kind(c.Param("kind")), c.Param("subjectId"), req.Week, *req.Attendance)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, rec.toDTO())
}

func (h *Handler) SetNotes(c *gin.Context) {
	var req SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json or missing required fields")))
		return
	}
	rec, err := h.svc.SetNotes(c.Request.Context(), Kind(c.Param("kind")), c.Param("subjectId"), req.Week, req.Notes)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, rec.toDTO())
}

func (h *Handler) AppendPrayerRequest(c *gin.Context) {
	var req AppendPrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json or missing required fields")))
		return
	}
	rec, err := h.svc.AppendPrayerRequest(c.Request.Context(), Kind(c.Param("kind")), c.Param("subjectId"), req.Week, req.Text)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusCreated, rec.toDTO())
}
