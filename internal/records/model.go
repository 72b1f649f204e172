package records

import "strings"

// 기록 대상: 학생 또는 교사. 테이블만 다르고 구조는 같다.
type Kind string

const (
	KindStudent Kind = "students"
	KindTeacher Kind = "teachers"
)

func (k Kind) valid() bool { return k == KindStudent || k == KindTeacher }

func (k Kind) table() string {
	if k == KindTeacher {
		return "teacher_weekly_records"
	}
	return "weekly_records"
}

func (k Kind) idColumn() string {
	if k == KindTeacher {
		return "teacher_id"
	}
	return "student_id"
}

// WeeklyRecord는 (대상, 주차) 하나당 한 건. 명시적 생성 API는 없고
// 첫 변경 시 upsert로 만들어진다.
type WeeklyRecord struct {
	SubjectID      string
	WeekID         string
	Attendance     bool
	Notes          string
	PrayerRequests []string
}

func emptyRecord(subjectID, weekID string) WeeklyRecord {
	return WeeklyRecord{
		SubjectID:      subjectID,
		WeekID:         weekID,
		PrayerRequests: []string{},
	}
}

// 저장 표현은 개행으로 이어붙인 TEXT 한 덩어리.
// 항목 자체에 개행이 들어오면 다음 읽기에서 둘로 쪼개지므로 서비스 계층에서 거른다.
func joinPrayers(list []string) string {
	return strings.Join(list, "\n")
}

func splitPrayers(blob string) []string {
	if blob == "" {
		return []string{}
	}
	parts := strings.Split(blob, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
