package roster

// JSON 필드명은 프론트(SPA)가 쓰는 형태 그대로 유지한다.

type StudentDTO struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
}

type ClassDTO struct {
	ClassID    string       `json:"classId"`
	ClassName  string       `json:"className"`
	TeacherIDs []string     `json:"teacherIds"`
	Students   []StudentDTO `json:"students"`
}

type GradeDTO struct {
	GradeID   int        `json:"gradeId"`
	GradeName string     `json:"gradeName"`
	Classes   []ClassDTO `json:"classes"`
}

type TeacherDTO struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Gender *string `json:"gender,omitempty"`
}

type RosterDTO struct {
	Grades   []GradeDTO   `json:"grades"`
	Teachers []TeacherDTO `json:"teachers"`
}

func (r *Roster) toDTO() RosterDTO {
	out := RosterDTO{
		Grades:   make([]GradeDTO, 0, len(r.Grades)),
		Teachers: make([]TeacherDTO, 0, len(r.Teachers)),
	}
	for _, g := range r.Grades {
		gd := GradeDTO{GradeID: g.ID, GradeName: g.Name, Classes: make([]ClassDTO, 0, len(g.Classes))}
		for _, c := range g.Classes {
			cd := ClassDTO{
				ClassID:    c.ID,
				ClassName:  c.Name,
				TeacherIDs: c.TeacherIDs,
				Students:   make([]StudentDTO, 0, len(c.Students)),
			}
			if cd.TeacherIDs == nil {
				cd.TeacherIDs = []string{}
			}
			for _, s := range c.Students {
				cd.Students = append(cd.Students, StudentDTO{StudentID: s.ID, Name: s.Name, Gender: s.Gender})
			}
			gd.Classes = append(gd.Classes, cd)
		}
		out.Grades = append(out.Grades, gd)
	}
	for _, t := range r.Teachers {
		out.Teachers = append(out.Teachers, TeacherDTO{ID: t.ID, Name: t.Name, Gender: t.Gender})
	}
	return out
}

type AddGradeRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddClassRequest struct {
	GradeID int    `json:"gradeId" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

type AddTeacherRequest struct {
	Name   string  `json:"name" binding:"required"`
	Gender *string `json:"gender,omitempty"`
}

type AddStudentRequest struct {
	ClassID string `json:"classId" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Gender  string `json:"gender" binding:"required"`
}

type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

type AssignTeachersRequest struct {
	TeacherIDs []string `json:"teacherIds"`
}

// 변경 성공 시 응답: 생성/변경된 엔티티 + 다시 읽어온 전체 명부
type MutationResponse struct {
	Entity any       `json:"entity,omitempty"`
	Roster RosterDTO `json:"roster"`
}
