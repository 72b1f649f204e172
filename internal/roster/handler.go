package roster

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// 읽기는 공개, 쓰기는 admin 미들웨어 뒤에 둔다.
func RegisterRoutes(public, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	public.GET("/roster", h.GetRoster)
	public.GET("/teachers/search", h.SearchTeachers)

	admin.POST("/grades", h.AddGrade)
	admin.POST("/classes", h.AddClass)
	admin.PUT("/classes/:id/name", h.RenameClass)
	admin.PUT("/classes/:id/teachers", h.AssignTeachers)
	admin.DELETE("/classes/:id", h.RemoveClass)
	admin.POST("/teachers", h.AddTeacher)
	admin.PUT("/teachers/:id/name", h.RenameTeacher)
	admin.DELETE("/teachers/:id", h.RemoveTeacher)
	admin.POST("/students", h.AddStudent)
	admin.PUT("/students/:id/name", h.RenameStudent)
	admin.DELETE("/students/:id", h.RemoveStudent)
}

func (h *Handler) GetRoster(c *gin.Context) {
	r, err := h.svc.GetRoster(c.Request.Context())
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, r.toDTO())
}

func (h *Handler) AddGrade(c *gin.Context) {
	var req AddGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json or missing required fields")))
		return
	}
	g, r, err := h.svc.AddGrade(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusCreated, MutationResponse{Entity: gin.H{"gradeId": g.ID, "gradeName": g.Name}, Roster: r.toDTO()})
}

func (h *Handler) AddClass(c *gin.Context) {
	var req AddClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json or missing required fields")))
		return
	}
	cls, r, err := h.svc.AddClass(c.Request.Context(), req.GradeID, req.Name)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusCreated, MutationResponse{
		Entity: gin.H{"classId": cls.ID, "gradeId": cls.GradeID, "className": cls.Name},
		Roster: r.toDTO(),
	})
}

func (h *Handler) RenameClass(c *gin.Context) {
	h.handleRename(c, h.svc.RenameClass)
}

func (h *Handler) AssignTeachers(c *gin.Context) {
	var req AssignTeachersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json")))
		return
	}
	r, err := h.svc.AssignTeachers(c.Request.Context(), c.Param("id"), req.TeacherIDs)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, MutationResponse{Roster: r.toDTO()})
}

func (h *Handler) RemoveClass(c *gin.Context) {
	h.handleRemove(c, h.svc.RemoveClass)
}

func (h *Handler) AddTeacher(c *gin.Context) {
	var req AddTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json or missing required fields")))
		return
	}
	t, r, err := h.svc.AddTeacher(c.Request.Context(), req.Name, req.Gender)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusCreated, MutationResponse{
		Entity: TeacherDTO{ID: t.ID, Name: t.Name, Gender: t.Gender},
		Roster: r.toDTO(),
	})
}

func (h *Handler) RenameTeacher(c *gin.Context) {
	h.handleRename(c, h.svc.RenameTeacher)
}

func (h *Handler) RemoveTeacher(c *gin.Context) {
	h.handleRemove(c, h.svc.RemoveTeacher)
}

func (h *Handler) SearchTeachers(c *gin.Context) {
	hits, err := h.svc.SearchTeachers(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	out := make([]gin.H, 0, len(hits))
	for _, hit := range hits {
		out = append(out, gin.H{"id": hit.ID, "name": hit.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AddStudent(c *gin.Context) {
	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json or missing required fields")))
		return
	}
	st, r, err := h.svc.AddStudent(c.Request.Context(), req.ClassID, req.Name, req.Gender)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusCreated, MutationResponse{
		Entity: StudentDTO{StudentID: st.ID, Name: st.Name, Gender: st.Gender},
		Roster: r.toDTO(),
	})
}

func (h *Handler) RenameStudent(c *gin.Context) {
	h.handleRename(c, h.svc.RenameStudent)
}

func (h *Handler) RemoveStudent(c *gin.Context) {
	h.handleRemove(c, h.svc.RemoveStudent)
}

func (h *Handler) handleRename(c *gin.Context, fn func(ctx context.Context, id, name string) (*Roster, error)) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.Invalid("invalid json or missing required fields")))
		return
	}
	r, err := fn(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, MutationResponse{Roster: r.toDTO()})
}

func (h *Handler) handleRemove(c *gin.Context, fn func(ctx context.Context, id string) (*Roster, error)) {
	r, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apierr.HTTPStatus(err), apierr.DTO(err))
		return
	}
	c.JSON(http.StatusOK, MutationResponse{Roster: r.toDTO()})
}
