package roster

import (
	"context"
	"database/sql"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
)

// Service는 명부 변경의 동기화 규약을 구현한다:
// 원격 저장 성공 → 전체 스냅샷 재적재 → 재적재본 반환.
// 실패하면 아무것도 반영하지 않고 에러만 돌려준다.
type Service struct {
	store RosterStore
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func NewServiceWithStore(store RosterStore) *Service {
	return &Service{store: store}
}

func (s *Service) GetRoster(ctx context.Context) (*Roster, error) {
	r, err := s.store.LoadRoster(ctx)
	if err != nil {
		return nil, apierr.Unavailable("명부를 읽지 못했습니다: " + err.Error())
	}
	return r, nil
}

func (s *Service) AddGrade(ctx context.Context, name string) (Grade, *Roster, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Grade{}, nil, apierr.Invalid("학년 이름을 입력해주세요")
	}
	g, err := s.store.InsertGrade(ctx, name)
	if err != nil {
		return Grade{}, nil, apierr.Unavailable("학년 저장 실패: " + err.Error())
	}
	r, err := s.GetRoster(ctx)
	return g, r, err
}

func (s *Service) AddClass(ctx context.Context, gradeID int, name string) (Class, *Roster, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Class{}, nil, apierr.Invalid("반 이름을 입력해주세요")
	}
	ok, err := s.store.GradeExists(ctx, gradeID)
	if err != nil {
		return Class{}, nil, apierr.Unavailable("학년 조회 실패: " + err.Error())
	}
	if !ok {
		return Class{}, nil, apierr.NotFound("학년이 존재하지 않습니다")
	}
	// 같은 학년 안에서 반 이름은 유일해야 한다
	dup, err := s.store.ClassNameExists(ctx, gradeID, name)
	if err != nil {
		return Class{}, nil, apierr.Unavailable("반 이름 조회 실패: " + err.Error())
	}
	if dup {
		return Class{}, nil, apierr.DuplicateName("이미 '" + name + "'이(가) 존재합니다")
	}

	c := Class{ID: ulid.Make().String(), GradeID: gradeID, Name: name}
	if err := s.store.InsertClass(ctx, c); err != nil {
		if IsDupEntry(err) {
			return Class{}, nil, apierr.DuplicateName("이미 '" + name + "'이(가) 존재합니다")
		}
		return Class{}, nil, apierr.Unavailable("반 저장 실패: " + err.Error())
	}
	r, err := s.GetRoster(ctx)
	return c, r, err
}

func (s *Service) RenameClass(ctx context.Context, id, name string) (*Roster, error) {
	return s.rename(ctx, name, func(ctx context.Context, name string) (int64, error) {
		return s.store.UpdateClassName(ctx, id, name)
	}, "반")
}

func (s *Service) RemoveClass(ctx context.Context, id string) (*Roster, error) {
	n, err := s.store.DeleteClass(ctx, id)
	if err != nil {
		return nil, apierr.Unavailable("반 삭제 실패: " + err.Error())
	}
	if n == 0 {
		return nil, apierr.NotFound("반이 존재하지 않습니다")
	}
	return s.GetRoster(ctx)
}

// AssignTeachers는 반의 교사 배정 집합을 통째로 교체한다 (추가 방식 아님).
func (s *Service) AssignTeachers(ctx context.Context, classID string, teacherIDs []string) (*Roster, error) {
	ok, err := s.store.ClassExists(ctx, classID)
	if err != nil {
		return nil, apierr.Unavailable("반 조회 실패: " + err.Error())
	}
	if !ok {
		return nil, apierr.NotFound("반이 존재하지 않습니다")
	}

	ids := dedupe(teacherIDs)
	ok, err = s.store.TeachersExist(ctx, ids)
	if err != nil {
		return nil, apierr.Unavailable("교사 조회 실패: " + err.Error())
	}
	if !ok {
		return nil, apierr.NotFound("존재하지 않는 교사가 포함되어 있습니다")
	}

	if err := s.store.ReplaceClassTeachers(ctx, classID, ids); err != nil {
		return nil, apierr.Unavailable("교사 배정 실패: " + err.Error())
	}
	return s.GetRoster(ctx)
}

func (s *Service) AddTeacher(ctx context.Context, name string, gender *string) (Teacher, *Roster, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Teacher{}, nil, apierr.Invalid("교사 이름을 입력해주세요")
	}
	t := Teacher{ID: ulid.Make().String(), Name: name, Gender: gender}
	if err := s.store.InsertTeacher(ctx, t); err != nil {
		return Teacher{}, nil, apierr.Unavailable("교사 저장 실패: " + err.Error())
	}
	r, err := s.GetRoster(ctx)
	return t, r, err
}

func (s *Service) RenameTeacher(ctx context.Context, id, name string) (*Roster, error) {
	return s.rename(ctx, name, func(ctx context.Context, name string) (int64, error) {
		return s.store.UpdateTeacherName(ctx, id, name)
	}, "교사")
}

func (s *Service) RemoveTeacher(ctx context.Context, id string) (*Roster, error) {
	n, err := s.store.DeleteTeacher(ctx, id)
	if err != nil {
		return nil, apierr.Unavailable("교사 삭제 실패: " + err.Error())
	}
	if n == 0 {
		return nil, apierr.NotFound("교사가 존재하지 않습니다")
	}
	return s.GetRoster(ctx)
}

// 빈 검색어는 전체 매칭이 아니라 빈 결과
func (s *Service) SearchTeachers(ctx context.Context, query string) ([]TeacherHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []TeacherHit{}, nil
	}
	hits, err := s.store.SearchTeachers(ctx, query)
	if err != nil {
		return nil, apierr.Unavailable("교사 검색 실패: " + err.Error())
	}
	return hits, nil
}

func (s *Service) AddStudent(ctx context.Context, classID, name, gender string) (Student, *Roster, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Student{}, nil, apierr.Invalid("학생 이름을 입력해주세요")
	}
	if strings.TrimSpace(gender) == "" {
		return Student{}, nil, apierr.Invalid("성별을 입력해주세요")
	}
	ok, err := s.store.ClassExists(ctx, classID)
	if err != nil {
		return Student{}, nil, apierr.Unavailable("반 조회 실패: " + err.Error())
	}
	if !ok {
		return Student{}, nil, apierr.NotFound("반이 존재하지 않습니다")
	}
	st := Student{ID: ulid.Make().String(), ClassID: classID, Name: name, Gender: gender}
	if err := s.store.InsertStudent(ctx, st); err != nil {
		return Student{}, nil, apierr.Unavailable("학생 저장 실패: " + err.Error())
	}
	r, err := s.GetRoster(ctx)
	return st, r, err
}

func (s *Service) RenameStudent(ctx context.Context, id, name string) (*Roster, error) {
	return s.rename(ctx, name, func(ctx context.Context, name string) (int64, error) {
		return s.store.UpdateStudentName(ctx, id, name)
	}, "학생")
}

func (s *Service) RemoveStudent(ctx context.Context, id string) (*Roster, error) {
	n, err := s.store.DeleteStudent(ctx, id)
	if err != nil {
		return nil, apierr.Unavailable("학생 삭제 실패: " + err.Error())
	}
	if n == 0 {
		return nil, apierr.NotFound("학생이 존재하지 않습니다")
	}
	return s.GetRoster(ctx)
}

func (s *Service) rename(ctx context.Context, name string, update func(context.Context, string) (int64, error), what string) (*Roster, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Invalid("이름을 입력해주세요")
	}
	n, err := update(ctx, name)
	if err != nil {
		if IsDupEntry(err) {
			return nil, apierr.DuplicateName("이미 '" + name + "'이(가) 존재합니다")
		}
		return nil, apierr.Unavailable(what + " 이름 변경 실패: " + err.Error())
	}
	if n == 0 {
		return nil, apierr.NotFound(what + "이(가) 존재하지 않습니다")
	}
	return s.GetRoster(ctx)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
