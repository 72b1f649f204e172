package records

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/db"
)

const mysqlErrFKViolation = 1452

type RecordStore interface {
	Get(ctx context.Context, kind Kind, subjectID, weekID string) (*WeeklyRecord, error)
	SetAttendance(ctx context.Context, kind Kind, subjectID, weekID string, attendance bool) (WeeklyRecord, error)
	SetNotes(ctx context.Context, kind Kind, subjectID, weekID, notes string) (WeeklyRecord, error)
	SetPrayerBlob(ctx context.Context, kind Kind, subjectID, weekID, blob string) (WeeklyRecord, error)
	ListWeek(ctx context.Context, kind Kind, weekID string) ([]WeeklyRecord, error)
	ListWeeks(ctx context.Context, kind Kind, weekIDs []string) ([]WeeklyRecord, error)
	ListAll(ctx context.Context, kind Kind) ([]WeeklyRecord, error)
}

type Store struct{ db db.DBTX }

func NewStore(sdb *sql.DB) *Store { return &Store{db: sdb} }

type recordRow struct {
	SubjectID  string
	WeekID     string
	Attendance bool
	Notes      string
	Prayers    string
}

func (r recordRow) toModel() WeeklyRecord {
	return WeeklyRecord{
		SubjectID:      r.SubjectID,
		WeekID:         r.WeekID,
		Attendance:     r.Attendance,
		Notes:          r.Notes,
		PrayerRequests: splitPrayers(r.Prayers),
	}
}

// 기록이 없으면 (nil, nil). 기본값 채움은 서비스 계층 몫.
func (s *Store) Get(ctx context.Context, kind Kind, subjectID, weekID string) (*WeeklyRecord, error) {
	q := `
	SELECT ` + kind.idColumn() + `, week_id, attendance, notes, prayer_requests
	FROM ` + kind.table() + `
	WHERE ` + kind.idColumn() + ` = ? AND week_id = ?`

	var r recordRow
	err := s.db.QueryRowContext(ctx, q, subjectID, weekID).
		Scan(&r.SubjectID, &r.WeekID, &r.Attendance, &r.Notes, &r.Prayers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := r.toModel()
	return &rec, nil
}

// 출석 필드만 덮어쓰는 upsert. 충돌 대상은 (subject_id, week_id) UNIQUE 키이고
// 두 번째 호출은 항상 제자리 갱신이다. 성공 후 확정 행을 다시 읽어 반환한다.
func (s *Store) SetAttendance(ctx context.Context, kind Kind, subjectID, weekID string, attendance bool) (WeeklyRecord, error) {
	q := `
	INSERT INTO ` + kind.table() + ` (` + kind.idColumn() + `, week_id, attendance, notes, prayer_requests)
	VALUES (?, ?, ?, '', '')
	ON DUPLICATE KEY UPDATE attendance = VALUES(attendance)`
	return s.upsert(ctx, kind, subjectID, weekID, q, subjectID, weekID, attendance)
}

func (s *Store) SetNotes(ctx context.Context, kind Kind, subjectID, weekID, notes string) (WeeklyRecord, error) {
	q := `
	INSERT INTO ` + kind.table() + ` (` + kind.idColumn() + `, week_id, attendance, notes, prayer_requests)
	VALUES (?, ?, 0, ?, '')
	ON DUPLICATE KEY UPDATE notes = VALUES(notes)`
	return s.upsert(ctx, kind, subjectID, weekID, q, subjectID, weekID, notes)
}

// 기도제목 블랍 전체 덮어쓰기. append는 서비스 계층의 읽고-수정-쓰기이며
// 동시 append 둘 중 하나가 질 수 있다 (문서화된 한계, last-write-wins).
func (s *Store) SetPrayerBlob(ctx context.Context, kind Kind, subjectID, weekID, blob string) (WeeklyRecord, error) {
	q := `
	INSERT INTO ` + kind.table() + ` (` + kind.idColumn() + `, week_id, attendance, notes, prayer_requests)
	VALUES (?, ?, 0, '', ?)
	ON DUPLICATE KEY UPDATE prayer_requests = VALUES(prayer_requests)`
	return s.upsert(ctx, kind, subjectID, weekID, q, subjectID, weekID, blob)
}

func (s *Store) upsert(ctx context.Context, kind Kind, subjectID, weekID, q string, args ...any) (WeeklyRecord, error) {
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return WeeklyRecord{}, err
	}
	rec, err := s.Get(ctx, kind, subjectID, weekID)
	if err != nil {
		return WeeklyRecord{}, err
	}
	if rec == nil {
		return WeeklyRecord{}, errors.New("upserted but not found")
	}
	return *rec, nil
}

func (s *Store) ListWeek(ctx context.Context, kind Kind, weekID string) ([]WeeklyRecord, error) {
	q := `
	SELECT ` + kind.idColumn() + `, week_id, attendance, notes, prayer_requests
	FROM ` + kind.table() + `
	WHERE week_id = ?
	ORDER BY ` + kind.idColumn()
	return s.list(ctx, q, weekID)
}

func (s *Store) ListWeeks(ctx context.Context, kind Kind, weekIDs []string) ([]WeeklyRecord, error) {
	if len(weekIDs) == 0 {
		return []WeeklyRecord{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(weekIDs)), ",")
	q := `
	SELECT ` + kind.idColumn() + `, week_id, attendance, notes, prayer_requests
	FROM ` + kind.table() + `
	WHERE week_id IN (` + placeholders + `)
	ORDER BY week_id, ` + kind.idColumn()
	args := make([]any, 0, len(weekIDs))
	for _, w := range weekIDs {
		args = append(args, w)
	}
	return s.list(ctx, q, args...)
}

func (s *Store) ListAll(ctx context.Context, kind Kind) ([]WeeklyRecord, error) {
	q := `
	SELECT ` + kind.idColumn() + `, week_id, attendance, notes, prayer_requests
	FROM ` + kind.table() + `
	ORDER BY ` + kind.idColumn() + `, week_id`
	return s.list(ctx, q)
}

func (s *Store) list(ctx context.Context, q string, args ...any) ([]WeeklyRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]WeeklyRecord, 0, 32)
	for rows.Next() {
		var r recordRow
		if err := rows.Scan(&r.SubjectID, &r.WeekID, &r.Attendance, &r.Notes, &r.Prayers); err != nil {
			return nil, err
		}
		out = append(out, r.toModel())
	}
	return out, rows.Err()
}

// 삭제된 대상에 대한 upsert → FK 위반. 다른 세션이 지운 학생/교사다.
func IsFKViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrFKViolation
}
