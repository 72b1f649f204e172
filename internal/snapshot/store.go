package snapshot

import (
	"context"
	"database/sql"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/db"
	"github.com/jihunparkme/aymc-high-school-class/internal/records"
	"github.com/jihunparkme/aymc-high-school-class/internal/roster"
)

// 가져오기가 한 번에 교체하는 전체 상태
type state struct {
	Grades         []roster.GradeNode
	Teachers       []roster.Teacher
	StudentRecords []records.WeeklyRecord
	TeacherRecords []records.WeeklyRecord
}

type ReplaceStore interface {
	ReplaceAll(ctx context.Context, st state) error
}

type Store struct{ db *sql.DB }

func NewStore(sdb *sql.DB) *Store { return &Store{db: sdb} }

// ReplaceAll: 전체 교체를 한 Tx로. FK 순서에 맞춰 자식부터 비우고 부모부터 채운다.
func (s *Store) ReplaceAll(ctx context.Context, st state) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		for _, q := range []string{
			`DELETE FROM teacher_weekly_records`,
			`DELETE FROM weekly_records`,
			`DELETE FROM class_teachers`,
			`DELETE FROM students`,
			`DELETE FROM classes`,
			`DELETE FROM teachers`,
			`DELETE FROM grades`,
		} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return err
			}
		}

		for _, t := range st.Teachers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO teachers (teacher_id, teacher_name, gender) VALUES (?, ?, ?)`,
				t.ID, t.Name, t.Gender); err != nil {
				return err
			}
		}
		for _, g := range st.Grades {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO grades (grade_id, grade_name) VALUES (?, ?)`, g.ID, g.Name); err != nil {
				return err
			}
			for _, c := range g.Classes {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO classes (class_id, grade_id, class_name) VALUES (?, ?, ?)`,
					c.ID, g.ID, c.Name); err != nil {
					return err
				}
				for _, tid := range c.TeacherIDs {
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO class_teachers (class_id, teacher_id) VALUES (?, ?)`, c.ID, tid); err != nil {
						return err
					}
				}
				for _, stu := range c.Students {
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO students (student_id, class_id, student_name, gender) VALUES (?, ?, ?, ?)`,
						stu.ID, c.ID, stu.Name, stu.Gender); err != nil {
						return err
					}
				}
			}
		}

		if err := insertRecords(ctx, tx, `weekly_records`, `student_id`, st.StudentRecords); err != nil {
			return err
		}
		return insertRecords(ctx, tx, `teacher_weekly_records`, `teacher_id`, st.TeacherRecords)
	})
}

func insertRecords(ctx context.Context, tx db.DBTX, table, idCol string, recs []records.WeeklyRecord) error {
	q := `INSERT INTO ` + table + ` (` + idCol + `, week_id, attendance, notes, prayer_requests) VALUES (?, ?, ?, ?, ?)`
	for _, r := range recs {
		blob := ""
		if len(r.PrayerRequests) > 0 {
			blob = joinLines(r.PrayerRequests)
		}
		if _, err := tx.ExecContext(ctx, q, r.SubjectID, r.WeekID, r.Attendance, r.Notes, blob); err != nil {
			return err
		}
	}
	return nil
}
