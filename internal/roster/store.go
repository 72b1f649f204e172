package roster

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/db"
)

const mysqlErrDupEntry = 1062

type RosterStore interface {
	LoadRoster(ctx context.Context) (*Roster, error)
	InsertGrade(ctx context.Context, name string) (Grade, error)
	GradeExists(ctx context.Context, id int) (bool, error)
	ClassNameExists(ctx context.Context, gradeID int, name string) (bool, error)
	ClassExists(ctx context.Context, id string) (bool, error)
	InsertClass(ctx context.Context, c Class) error
	UpdateClassName(ctx context.Context, id, name string) (int64, error)
	DeleteClass(ctx context.Context, id string) (int64, error)
	ReplaceClassTeachers(ctx context.Context, classID string, teacherIDs []string) error
	InsertTeacher(ctx context.Context, t Teacher) error
	UpdateTeacherName(ctx context.Context, id, name string) (int64, error)
	DeleteTeacher(ctx context.Context, id string) (int64, error)
	TeachersExist(ctx context.Context, ids []string) (bool, error)
	SearchTeachers(ctx context.Context, query string) ([]TeacherHit, error)
	InsertStudent(ctx context.Context, s Student) error
	UpdateStudentName(ctx context.Context, id, name string) (int64, error)
	DeleteStudent(ctx context.Context, id string) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(sdb *sql.DB) *Store { return &Store{db: sdb} }

// LoadRoster는 명부 전체를 다시 읽는다. 변경 후 부분 캐시 갱신은 하지 않고
// 항상 이 스냅샷이 단일 진실이 된다.
func (s *Store) LoadRoster(ctx context.Context) (*Roster, error) {
	var out Roster
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		grades, err := loadGrades(ctx, tx)
		if err != nil {
			return err
		}
		classes, err := loadClasses(ctx, tx)
		if err != nil {
			return err
		}
		students, err := loadStudents(ctx, tx)
		if err != nil {
			return err
		}
		links, err := loadClassTeachers(ctx, tx)
		if err != nil {
			return err
		}
		teachers, err := loadTeachers(ctx, tx)
		if err != nil {
			return err
		}

		studentsByClass := make(map[string][]Student)
		for _, st := range students {
			studentsByClass[st.ClassID] = append(studentsByClass[st.ClassID], st)
		}
		classesByGrade := make(map[int][]ClassNode)
		for _, c := range classes {
			node := ClassNode{Class: c, TeacherIDs: links[c.ID], Students: studentsByClass[c.ID]}
			if node.TeacherIDs == nil {
				node.TeacherIDs = []string{}
			}
			if node.Students == nil {
				node.Students = []Student{}
			}
			classesByGrade[c.GradeID] = append(classesByGrade[c.GradeID], node)
		}
		for _, g := range grades {
			gn := GradeNode{Grade: g, Classes: classesByGrade[g.ID]}
			if gn.Classes == nil {
				gn.Classes = []ClassNode{}
			}
			out.Grades = append(out.Grades, gn)
		}
		out.Teachers = teachers
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Grades == nil {
		out.Grades = []GradeNode{}
	}
	if out.Teachers == nil {
		out.Teachers = []Teacher{}
	}
	return &out, nil
}

func loadGrades(ctx context.Context, tx db.DBTX) ([]Grade, error) {
	rows, err := tx.QueryContext(ctx, `SELECT grade_id, grade_name FROM grades ORDER BY grade_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Grade
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func loadClasses(ctx context.Context, tx db.DBTX) ([]Class, error) {
	rows, err := tx.QueryContext(ctx, `SELECT class_id, grade_id, class_name FROM classes ORDER BY grade_id, class_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.ID, &c.GradeID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func loadStudents(ctx context.Context, tx db.DBTX) ([]Student, error) {
	rows, err := tx.QueryContext(ctx, `SELECT student_id, class_id, student_name, gender FROM students ORDER BY class_id, student_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.ClassID, &st.Name, &st.Gender); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func loadTeachers(ctx context.Context, tx db.DBTX) ([]Teacher, error) {
	rows, err := tx.QueryContext(ctx, `SELECT teacher_id, teacher_name, gender FROM teachers ORDER BY teacher_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.Gender); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// 반별 교사 목록. 표시용 교사명 join이 흔들리지 않도록 teacher_id 순으로 고정.
func loadClassTeachers(ctx context.Context, tx db.DBTX) (map[string][]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT class_id, teacher_id FROM class_teachers ORDER BY class_id, teacher_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var classID, teacherID string
		if err := rows.Scan(&classID, &teacherID); err != nil {
			return nil, err
		}
		out[classID] = append(out[classID], teacherID)
	}
	return out, rows.Err()
}

func (s *Store) InsertGrade(ctx context.Context, name string) (Grade, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO grades (grade_name) VALUES (?)`, name)
	if err != nil {
		return Grade{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Grade{}, err
	}
	return Grade{ID: int(id), Name: name}, nil
}

func (s *Store) GradeExists(ctx context.Context, id int) (bool, error) {
	return s.existsRow(ctx, `SELECT 1 FROM grades WHERE grade_id = ? LIMIT 1`, id)
}

func (s *Store) ClassNameExists(ctx context.Context, gradeID int, name string) (bool, error) {
	return s.existsRow(ctx, `SELECT 1 FROM classes WHERE grade_id = ? AND class_name = ? LIMIT 1`, gradeID, name)
}

func (s *Store) ClassExists(ctx context.Context, id string) (bool, error) {
	return s.existsRow(ctx, `SELECT 1 FROM classes WHERE class_id = ? LIMIT 1`, id)
}

func (s *Store) existsRow(ctx context.Context, q string, args ...any) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) InsertClass(ctx context.Context, c Class) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO classes (class_id, grade_id, class_name) VALUES (?, ?, ?)`,
		c.ID, c.GradeID, c.Name)
	return err
}

func (s *Store) UpdateClassName(ctx context.Context, id, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE classes SET class_name = ? WHERE class_id = ?`, name, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// 반 삭제. 학생 / 반-교사 링크 / 학생 주차 기록은 FK CASCADE로 함께 지워진다.
func (s *Store) DeleteClass(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM classes WHERE class_id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// 배정 교체: 전체 삭제 후 재삽입. 중간 상태가 보이지 않도록 한 Tx로 묶는다.
func (s *Store) ReplaceClassTeachers(ctx context.Context, classID string, teacherIDs []string) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM class_teachers WHERE class_id = ?`, classID); err != nil {
			return err
		}
		for _, tid := range teacherIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO class_teachers (class_id, teacher_id) VALUES (?, ?)`, classID, tid); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) InsertTeacher(ctx context.Context, t Teacher) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teachers (teacher_id, teacher_name, gender) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.Gender)
	return err
}

func (s *Store) UpdateTeacherName(ctx context.Context, id, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE teachers SET teacher_name = ? WHERE teacher_id = ?`, name, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// 교사 삭제는 반을 지우지 않는다. 링크와 교사 주차 기록만 CASCADE.
func (s *Store) DeleteTeacher(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE teacher_id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) TeachersExist(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teachers WHERE teacher_id IN (`+placeholders+`)`, args...).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == len(ids), nil
}

func (s *Store) SearchTeachers(ctx context.Context, query string) ([]TeacherHit, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
	SELECT teacher_id, teacher_name
	FROM teachers
	WHERE LOWER(teacher_name) LIKE LOWER(?) ESCAPE '\\'
	ORDER BY teacher_name, teacher_id`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TeacherHit, 0, 8)
	for rows.Next() {
		var h TeacherHit
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) InsertStudent(ctx context.Context, st Student) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO students (student_id, class_id, student_name, gender) VALUES (?, ?, ?, ?)`,
		st.ID, st.ClassID, st.Name, st.Gender)
	return err
}

func (s *Store) UpdateStudentName(ctx context.Context, id, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE students SET student_name = ? WHERE student_id = ?`, name, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) DeleteStudent(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE student_id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// UNIQUE(grade_id, class_name) 위반 (사전 체크를 빠져나간 경합 케이스)
func IsDupEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDupEntry
}
