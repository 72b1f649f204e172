// Package reports는 명부+주차 기록 스냅샷 위의 순수 집계다.
// 여기서는 I/O를 하지 않는다. 적재는 service가 담당한다.
package reports

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jihunparkme/aymc-high-school-class/internal/records"
	"github.com/jihunparkme/aymc-high-school-class/internal/roster"
	"github.com/jihunparkme/aymc-high-school-class/internal/weekkey"
)

type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeGrade
	ScopeClass
	ScopeTeachers
)

// Scope: 집계 대상 필터. all | grade:<id> | class:<id> | teachers
type Scope struct {
	Kind    ScopeKind
	GradeID int
	ClassID string
}

func ParseScope(s string) (Scope, error) {
	switch {
	case s == "" || s == "all":
		return Scope{Kind: ScopeAll}, nil
	case s == "teachers":
		return Scope{Kind: ScopeTeachers}, nil
	case strings.HasPrefix(s, "grade:"):
		id, err := strconv.Atoi(strings.TrimPrefix(s, "grade:"))
		if err != nil {
			return Scope{}, fmt.Errorf("잘못된 scope: %q", s)
		}
		return Scope{Kind: ScopeGrade, GradeID: id}, nil
	case strings.HasPrefix(s, "class:"):
		return Scope{Kind: ScopeClass, ClassID: strings.TrimPrefix(s, "class:")}, nil
	default:
		return Scope{}, fmt.Errorf("잘못된 scope: %q", s)
	}
}

func (sc Scope) recordKind() records.Kind {
	if sc.Kind == ScopeTeachers {
		return records.KindTeacher
	}
	return records.KindStudent
}

// Snapshot은 집계 시점에 적재된 상태 전부다.
type Snapshot struct {
	Roster  *roster.Roster
	Records map[string]map[string]records.WeeklyRecord // subjectId → weekId → record
}

type Counts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Total   int `json:"total"`
}

type MonthRate struct {
	Month   int     `json:"month"`
	Rate    float64 `json:"rate"`
	HasData bool    `json:"hasData"`
}

// 대상 집합: 기록이 없는 대상도 결석으로 세어야 하므로 명부 기준으로 뽑는다.
func subjectIDs(r *roster.Roster, sc Scope) []string {
	if sc.Kind == ScopeTeachers {
		ids := make([]string, 0, len(r.Teachers))
		for _, t := range r.Teachers {
			ids = append(ids, t.ID)
		}
		return ids
	}
	var ids []string
	for _, g := range r.Grades {
		if sc.Kind == ScopeGrade && g.ID != sc.GradeID {
			continue
		}
		for _, c := range g.Classes {
			if sc.Kind == ScopeClass && c.ID != sc.ClassID {
				continue
			}
			for _, st := range c.Students {
				ids = append(ids, st.ID)
			}
		}
	}
	return ids
}

// WeeklyCounts: total = 범위 내 인원, present = 해당 주차 출석 기록이 true인 수,
// absent = total - present. 기록이 없는 대상은 결석.
func WeeklyCounts(snap Snapshot, sc Scope, weekID string) Counts {
	ids := subjectIDs(snap.Roster, sc)
	c := Counts{Total: len(ids)}
	for _, id := range ids {
		if rec, ok := snap.Records[id][weekID]; ok && rec.Attendance {
			c.Present++
		}
	}
	c.Absent = c.Total - c.Present
	return c
}

// YearlyRateByMonth: 달마다 그 달의 전체 주차에 대해 (출석 수 / 인원×주차 수)를 모아
// 백분율로 환산, 소수 첫째 자리 반올림. 대상이 없으면 rate 0, hasData false.
func YearlyRateByMonth(snap Snapshot, sc Scope, year int) []MonthRate {
	ids := subjectIDs(snap.Roster, sc)
	out := make([]MonthRate, 0, 12)
	for m := time.January; m <= time.December; m++ {
		weeks := weekkey.MonthWeekIDs(year, m)
		total := len(ids) * len(weeks)
		if total == 0 {
			out = append(out, MonthRate{Month: int(m)})
			continue
		}
		present := 0
		for _, id := range ids {
			for _, w := range weeks {
				if rec, ok := snap.Records[id][w]; ok && rec.Attendance {
					present++
				}
			}
		}
		rate := math.Round(float64(present)/float64(total)*1000) / 10
		out = append(out, MonthRate{Month: int(m), Rate: rate, HasData: true})
	}
	return out
}
