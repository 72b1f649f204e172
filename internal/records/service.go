package records

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
	"github.com/jihunparkme/aymc-high-school-class/internal/weekkey"
)

type Service struct {
	store RecordStore
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func NewServiceWithStore(store RecordStore) *Service {
	return &Service{store: store}
}

// GetRecord는 실패하지도 nil을 주지도 않는다. 저장된 게 없으면 기본 빈 기록.
func (s *Service) GetRecord(ctx context.Context, kind Kind, subjectID, weekID string) (WeeklyRecord, error) {
	if err := validateKey(kind, subjectID, weekID); err != nil {
		return WeeklyRecord{}, err
	}
	rec, err := s.store.Get(ctx, kind, subjectID, weekID)
	if err != nil {
		return WeeklyRecord{}, apierr.Unavailable("기록 조회 실패: " + err.Error())
	}
	if rec == nil {
		return emptyRecord(subjectID, weekID), nil
	}
	return *rec, nil
}

func (s *Service) SetAttendance(ctx context.Context, kind Kind, subjectID, weekID string, attendance bool) (WeeklyRecord, error) {
	if err := validateKey(kind, subjectID, weekID); err != nil {
		return WeeklyRecord{}, err
	}
	rec, err := s.store.SetAttendance(ctx, kind, subjectID, weekID, attendance)
	if err != nil {
		return WeeklyRecord{}, mapUpsertErr(err)
	}
	return rec, nil
}

func (s *Service) SetNotes(ctx context.Context, kind Kind, subjectID, weekID, notes string) (WeeklyRecord, error) {
	if err := validateKey(kind, subjectID, weekID); err != nil {
		return WeeklyRecord{}, err
	}
	rec, err := s.store.SetNotes(ctx, kind, subjectID, weekID, notes)
	if err != nil {
		return WeeklyRecord{}, mapUpsertErr(err)
	}
	return rec, nil
}

// AppendPrayerRequest: 현재 블랍을 읽어 항목을 이어붙이고 전체를 덮어쓴다.
// 저장 계층의 진짜 append가 아니므로 동시 append는 last-write-wins.
func (s *Service) AppendPrayerRequest(ctx context.Context, kind Kind, subjectID, weekID, text string) (WeeklyRecord, error) {
	if err := validateKey(kind, subjectID, weekID); err != nil {
		return WeeklyRecord{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return WeeklyRecord{}, apierr.Invalid("기도제목을 입력해주세요")
	}
	// 개행이 들어가면 다음 읽기에서 두 항목으로 깨진다 → 거부
	if strings.Contains(text, "\n") {
		return WeeklyRecord{}, apierr.Invalid("기도제목에는 줄바꿈을 넣을 수 없습니다")
	}

	cur, err := s.store.Get(ctx, kind, subjectID, weekID)
	if err != nil {
		return WeeklyRecord{}, apierr.Unavailable("기록 조회 실패: " + err.Error())
	}
	blob := text
	if cur != nil && len(cur.PrayerRequests) > 0 {
		blob = joinPrayers(cur.PrayerRequests) + "\n" + text
	}

	rec, err := s.store.SetPrayerBlob(ctx, kind, subjectID, weekID, blob)
	if err != nil {
		return WeeklyRecord{}, mapUpsertErr(err)
	}
	return rec, nil
}

// 한 주차 전체 기록을 subjectId → record 맵으로 반환 (주간 화면용)
func (s *Service) GetWeek(ctx context.Context, kind Kind, weekID string) (map[string]WeeklyRecord, error) {
	if !kind.valid() {
		return nil, apierr.Invalid("kind는 students 또는 teachers")
	}
	if err := validateWeek(weekID); err != nil {
		return nil, err
	}
	list, err := s.store.ListWeek(ctx, kind, weekID)
	if err != nil {
		return nil, apierr.Unavailable("주간 기록 조회 실패: " + err.Error())
	}
	out := make(map[string]WeeklyRecord, len(list))
	for _, r := range list {
		out[r.SubjectID] = r
	}
	return out, nil
}

// 집계용: 여러 주차의 기록을 subjectId → weekId → record 맵으로
func (s *Service) GetWeeks(ctx context.Context, kind Kind, weekIDs []string) (map[string]map[string]WeeklyRecord, error) {
	if !kind.valid() {
		return nil, apierr.Invalid("kind는 students 또는 teachers")
	}
	list, err := s.store.ListWeeks(ctx, kind, weekIDs)
	if err != nil {
		return nil, apierr.Unavailable("기록 조회 실패: " + err.Error())
	}
	out := make(map[string]map[string]WeeklyRecord)
	for _, r := range list {
		if out[r.SubjectID] == nil {
			out[r.SubjectID] = make(map[string]WeeklyRecord)
		}
		out[r.SubjectID][r.WeekID] = r
	}
	return out, nil
}

// 스냅샷 내보내기용: 전체 기록을 subjectId → weekId → record 맵으로
func (s *Service) GetAllRecords(ctx context.Context, kind Kind) (map[string]map[string]WeeklyRecord, error) {
	if !kind.valid() {
		return nil, apierr.Invalid("kind는 students 또는 teachers")
	}
	list, err := s.store.ListAll(ctx, kind)
	if err != nil {
		return nil, apierr.Unavailable("기록 조회 실패: " + err.Error())
	}
	out := make(map[string]map[string]WeeklyRecord)
	for _, r := range list {
		if out[r.SubjectID] == nil {
			out[r.SubjectID] = make(map[string]WeeklyRecord)
		}
		out[r.SubjectID][r.WeekID] = r
	}
	return out, nil
}

func validateKey(kind Kind, subjectID, weekID string) error {
	if !kind.valid() {
		return apierr.Invalid("kind는 students 또는 teachers")
	}
	if strings.TrimSpace(subjectID) == "" {
		return apierr.Invalid("대상 id가 비어 있습니다")
	}
	return validateWeek(weekID)
}

func validateWeek(weekID string) error {
	if _, err := weekkey.WeekStart(weekID); err != nil {
		return apierr.Invalid("주차 형식이 올바르지 않습니다 (예: 2025년 03월 2주차)")
	}
	return nil
}

func mapUpsertErr(err error) error {
	if IsFKViolation(err) {
		return apierr.NotFound("대상이 더 이상 존재하지 않습니다. 목록을 새로고침해주세요")
	}
	return apierr.Unavailable("기록 저장 실패: " + err.Error())
}
