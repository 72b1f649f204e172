package roster

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// RosterStore의 인메모리 구현. DB 없이 서비스 동작을 검증할 때 쓴다.
type memRoster struct {
	nextGradeID int
	grades      map[int]string
	classes     map[string]Class
	students    map[string]Student
	teachers    map[string]Teacher
	links       map[string][]string
}

func newMemRoster() *memRoster {
	return &memRoster{
		nextGradeID: 1,
		grades:      make(map[int]string),
		classes:     make(map[string]Class),
		students:    make(map[string]Student),
		teachers:    make(map[string]Teacher),
		links:       make(map[string][]string),
	}
}

func (m *memRoster) LoadRoster(ctx context.Context) (*Roster, error) {
	out := &Roster{Grades: []GradeNode{}, Teachers: []Teacher{}}

	gradeIDs := make([]int, 0, len(m.grades))
	for id := range m.grades {
		gradeIDs = append(gradeIDs, id)
	}
	sort.Ints(gradeIDs)

	for _, gid := range gradeIDs {
		gn := GradeNode{Grade: Grade{ID: gid, Name: m.grades[gid]}, Classes: []ClassNode{}}
		var classIDs []string
		for id, c := range m.classes {
			if c.GradeID == gid {
				classIDs = append(classIDs, id)
			}
		}
		sort.Strings(classIDs)
		for _, cid := range classIDs {
			cn := ClassNode{Class: m.classes[cid], TeacherIDs: []string{}, Students: []Student{}}
			cn.TeacherIDs = append(cn.TeacherIDs, m.links[cid]...)
			sort.Strings(cn.TeacherIDs)
			var studentIDs []string
			for id, st := range m.students {
				if st.ClassID == cid {
					studentIDs = append(studentIDs, id)
				}
			}
			sort.Strings(studentIDs)
			for _, sid := range studentIDs {
				cn.Students = append(cn.Students, m.students[sid])
			}
			gn.Classes = append(gn.Classes, cn)
		}
		out.Grades = append(out.Grades, gn)
	}

	var teacherIDs []string
	for id := range m.teachers {
		teacherIDs = append(teacherIDs, id)
	}
	sort.Strings(teacherIDs)
	for _, tid := range teacherIDs {
		out.Teachers = append(out.Teachers, m.teachers[tid])
	}
	return out, nil
}

func (m *memRoster) InsertGrade(ctx context.Context, name string) (Grade, error) {
	id := m.nextGradeID
	m.nextGradeID++
	m.grades[id] = name
	return Grade{ID: id, Name: name}, nil
}

func (m *memRoster) GradeExists(ctx context.Context, id int) (bool, error) {
	_, ok := m.grades[id]
	return ok, nil
}

func (m *memRoster) ClassNameExists(ctx context.Context, gradeID int, name string) (bool, error) {
	for _, c := range m.classes {
		if c.GradeID == gradeID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRoster) ClassExists(ctx context.Context, id string) (bool, error) {
	_, ok := m.classes[id]
	return ok, nil
}

func (m *memRoster) InsertClass(ctx context.Context, c Class) error {
	if dup, _ := m.ClassNameExists(ctx, c.GradeID, c.Name); dup {
		return errors.New("duplicate class name")
	}
	m.classes[c.ID] = c
	return nil
}

func (m *memRoster) UpdateClassName(ctx context.Context, id, name string) (int64, error) {
	c, ok := m.classes[id]
	if !ok {
		return 0, nil
	}
	c.Name = name
	m.classes[id] = c
	return 1, nil
}

func (m *memRoster) DeleteClass(ctx context.Context, id string) (int64, error) {
	if _, ok := m.classes[id]; !ok {
		return 0, nil
	}
	delete(m.classes, id)
	delete(m.links, id)
	for sid, st := range m.students {
		if st.ClassID == id {
			delete(m.students, sid)
		}
	}
	return 1, nil
}

func (m *memRoster) ReplaceClassTeachers(ctx context.Context, classID string, teacherIDs []string) error {
	m.links[classID] = append([]string(nil), teacherIDs...)
	return nil
}

func (m *memRoster) InsertTeacher(ctx context.Context, t Teacher) error {
	m.teachers[t.ID] = t
	return nil
}

func (m *memRoster) UpdateTeacherName(ctx context.Context, id, name string) (int64, error) {
	t, ok := m.teachers[id]
	if !ok {
		return 0, nil
	}
	t.Name = name
	m.teachers[id] = t
	return 1, nil
}

func (m *memRoster) DeleteTeacher(ctx context.Context, id string) (int64, error) {
	if _, ok := m.teachers[id]; !ok {
		return 0, nil
	}
	delete(m.teachers, id)
	for cid, ids := range m.links {
		keep := ids[:0]
		for _, tid := range ids {
			if tid != id {
				keep = append(keep, tid)
			}
		}
		m.links[cid] = keep
	}
	return 1, nil
}

func (m *memRoster) TeachersExist(ctx context.Context, ids []string) (bool, error) {
	for _, id := range ids {
		if _, ok := m.teachers[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (m *memRoster) SearchTeachers(ctx context.Context, query string) ([]TeacherHit, error) {
	q := strings.ToLower(query)
	out := []TeacherHit{}
	for _, t := range m.teachers {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, TeacherHit{ID: t.ID, Name: t.Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRoster) InsertStudent(ctx context.Context, s Student) error {
	m.students[s.ID] = s
	return nil
}

func (m *memRoster) UpdateStudentName(ctx context.Context, id, name string) (int64, error) {
	s, ok := m.students[id]
	if !ok {
		return 0, nil
	}
	s.Name = name
	m.students[id] = s
	return 1, nil
}

func (m *memRoster) DeleteStudent(ctx context.Context, id string) (int64, error) {
	if _, ok := m.students[id]; !ok {
		return 0, nil
	}
	delete(m.students, id)
	return 1, nil
}
