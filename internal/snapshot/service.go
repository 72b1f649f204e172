package snapshot

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
	"github.com/jihunparkme/aymc-high-school-class/internal/records"
	"github.com/jihunparkme/aymc-high-school-class/internal/roster"
	"github.com/jihunparkme/aymc-high-school-class/internal/weekkey"
)

func joinLines(list []string) string { return strings.Join(list, "\n") }

type rosterReader interface {
	GetRoster(ctx context.Context) (*roster.Roster, error)
}

type recordReader interface {
	GetAllRecords(ctx context.Context, kind records.Kind) (map[string]map[string]records.WeeklyRecord, error)
	GetWeeks(ctx context.Context, kind records.Kind, weekIDs []string) (map[string]map[string]records.WeeklyRecord, error)
}

type Service struct {
	roster  rosterReader
	records recordReader
	store   ReplaceStore
}

func NewService(rosterSvc rosterReader, recordsSvc recordReader, store ReplaceStore) *Service {
	return &Service{roster: rosterSvc, records: recordsSvc, store: store}
}

// Export는 현재 상태 전부를 고정된 JSON 형식으로 직렬화한다.
func (s *Service) Export(ctx context.Context) (*File, error) {
	r, err := s.roster.GetRoster(ctx)
	if err != nil {
		return nil, err
	}
	studentRecs, err := s.records.GetAllRecords(ctx, records.KindStudent)
	if err != nil {
		return nil, err
	}
	teacherRecs, err := s.records.GetAllRecords(ctx, records.KindTeacher)
	if err != nil {
		return nil, err
	}

	out := File{
		DailyData:        recordsToJSON(studentRecs),
		TeacherDailyData: recordsToJSON(teacherRecs),
	}
	for _, g := range r.Grades {
		gj := GradeJSON{GradeID: strconv.Itoa(g.ID), GradeName: g.Name, Classes: []ClassJSON{}}
		for _, c := range g.Classes {
			cj := ClassJSON{ClassID: c.ID, ClassName: c.Name, TeacherIDs: c.TeacherIDs, Students: []StudentJSON{}}
			for _, st := range c.Students {
				cj.Students = append(cj.Students, StudentJSON{StudentID: st.ID, Name: st.Name, Gender: st.Gender})
			}
			gj.Classes = append(gj.Classes, cj)
		}
		out.Data.Grades = append(out.Data.Grades, gj)
	}
	if out.Data.Grades == nil {
		out.Data.Grades = []GradeJSON{}
	}
	for _, t := range r.Teachers {
		out.Data.Teachers = append(out.Data.Teachers, TeacherJSON{ID: t.ID, Name: t.Name, Gender: t.Gender})
	}
	return &out, nil
}

func recordsToJSON(in map[string]map[string]records.WeeklyRecord) map[string]map[string]RecordJSON {
	out := make(map[string]map[string]RecordJSON, len(in))
	for id, weeks := range in {
		m := make(map[string]RecordJSON, len(weeks))
		for w, rec := range weeks {
			prayers := rec.PrayerRequests
			if prayers == nil {
				prayers = []string{}
			}
			m[w] = RecordJSON{PrayerRequests: prayers, Notes: rec.Notes, Attendance: rec.Attendance}
		}
		out[id] = m
	}
	return out
}

// Import는 파싱된 스냅샷을 전체 교체 후보로 반영한다. JSON 형식 검증 이상의
// 스키마 검증은 하지 않는다. id가 없거나 겹치면 새 ULID를 발급하고, 발급 전
// id를 참조하던 주차 기록은 새 id로 따라온다. 명부에 없는 대상의 기록은 버린다.
func (s *Service) Import(ctx context.Context, f *File) (*ImportSummary, error) {
	if f == nil {
		return nil, apierr.Invalid("스냅샷이 비어 있습니다")
	}

	var st state
	var sum ImportSummary
	studentIDMap := make(map[string]string)
	teacherIDMap := make(map[string]string)

	for _, tj := range f.Data.Teachers {
		id := tj.ID
		if id == "" {
			id = ulid.Make().String()
		}
		if tj.ID != "" {
			teacherIDMap[tj.ID] = id
		}
		st.Teachers = append(st.Teachers, roster.Teacher{ID: id, Name: tj.Name, Gender: tj.Gender})
		sum.Teachers++
	}

	nextGradeID := 1
	for _, gj := range f.Data.Grades {
		gid, err := strconv.Atoi(gj.GradeID)
		if err != nil || gid < 1 {
			gid = nextGradeID
		}
		if gid >= nextGradeID {
			nextGradeID = gid + 1
		}
		gn := roster.GradeNode{Grade: roster.Grade{ID: gid, Name: gj.GradeName}}
		for _, cj := range gj.Classes {
			cid := cj.ClassID
			if cid == "" {
				cid = ulid.Make().String()
			}
			cn := roster.ClassNode{Class: roster.Class{ID: cid, GradeID: gid, Name: cj.ClassName}}
			for _, tid := range cj.TeacherIDs {
				if mapped, ok := teacherIDMap[tid]; ok {
					cn.TeacherIDs = append(cn.TeacherIDs, mapped)
				}
			}
			for _, sj := range cj.Students {
				sid := sj.StudentID
				if sid == "" {
					sid = ulid.Make().String()
				}
				if sj.StudentID != "" {
					studentIDMap[sj.StudentID] = sid
				}
				cn.Students = append(cn.Students, roster.Student{ID: sid, ClassID: cid, Name: sj.Name, Gender: sj.Gender})
				sum.Students++
			}
			gn.Classes = append(gn.Classes, cn)
			sum.Classes++
		}
		st.Grades = append(st.Grades, gn)
		sum.Grades++
	}

	st.StudentRecords, sum.StudentRecords = convertRecords(f.DailyData, studentIDMap, &sum)
	st.TeacherRecords, sum.TeacherRecords = convertRecords(f.TeacherDailyData, teacherIDMap, &sum)

	if err := s.store.ReplaceAll(ctx, st); err != nil {
		return nil, apierr.Unavailable("스냅샷 반영 실패: " + err.Error())
	}
	return &sum, nil
}

func convertRecords(in map[string]map[string]RecordJSON, idMap map[string]string, sum *ImportSummary) ([]records.WeeklyRecord, int) {
	var out []records.WeeklyRecord
	count := 0
	for rawID, weeks := range in {
		id, ok := idMap[rawID]
		if !ok {
			// 명부에 없는 대상의 기록은 FK를 만족 못 하므로 버린다
			sum.SkippedRecords += len(weeks)
			continue
		}
		for w, rj := range weeks {
			out = append(out, records.WeeklyRecord{
				SubjectID:      id,
				WeekID:         w,
				Attendance:     rj.Attendance,
				Notes:          rj.Notes,
				PrayerRequests: rj.PrayerRequests,
			})
			count++
		}
	}
	return out, count
}

// AttendanceCSV: 한 달치 출석부를 CSV로. 한국어 엑셀에서 바로 열리도록 EUC-KR 인코딩.
func (s *Service) AttendanceCSV(ctx context.Context, year, month int, scope string) ([]byte, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, apierr.Invalid("year/month가 올바르지 않습니다")
	}
	var gradeFilter int
	var classFilter string
	switch {
	case scope == "" || scope == "all":
	case strings.HasPrefix(scope, "grade:"):
		id, err := strconv.Atoi(strings.TrimPrefix(scope, "grade:"))
		if err != nil {
			return nil, apierr.Invalid("잘못된 scope")
		}
		gradeFilter = id
	case strings.HasPrefix(scope, "class:"):
		classFilter = strings.TrimPrefix(scope, "class:")
	default:
		return nil, apierr.Invalid("잘못된 scope")
	}

	r, err := s.roster.GetRoster(ctx)
	if err != nil {
		return nil, err
	}
	weeks := weekkey.MonthWeekIDs(year, time.Month(month))
	recs, err := s.records.GetWeeks(ctx, records.KindStudent, weeks)
	if err != nil {
		return nil, err
	}

	rows := [][]string{append([]string{"학년", "반", "이름"}, weeks...)}
	for _, g := range r.Grades {
		if gradeFilter != 0 && g.ID != gradeFilter {
			continue
		}
		for _, c := range g.Classes {
			if classFilter != "" && c.ID != classFilter {
				continue
			}
			for _, stu := range c.Students {
				row := []string{g.Name, c.Name, stu.Name}
				for _, w := range weeks {
					mark := ""
					if rec, ok := recs[stu.ID][w]; ok && rec.Attendance {
						mark = "O"
					}
					row = append(row, mark)
				}
				rows = append(rows, row)
			}
		}
	}

	var buf bytes.Buffer
	w := transform.NewWriter(&buf, korean.EUCKR.NewEncoder())
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return nil, apierr.Internal("CSV 작성 실패: " + err.Error())
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, apierr.Internal("CSV 작성 실패: " + err.Error())
	}
	if err := w.Close(); err != nil {
		return nil, apierr.Internal("인코딩 실패: " + err.Error())
	}
	return buf.Bytes(), nil
}
