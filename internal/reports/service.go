package reports

import (
	"context"
	"time"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
	"github.com/jihunparkme/aymc-high-school-class/internal/records"
	"github.com/jihunparkme/aymc-high-school-class/internal/roster"
	"github.com/jihunparkme/aymc-high-school-class/internal/weekkey"
)

type rosterReader interface {
	GetRoster(ctx context.Context) (*roster.Roster, error)
}

type recordReader interface {
	GetWeek(ctx context.Context, kind records.Kind, weekID string) (map[string]records.WeeklyRecord, error)
	GetWeeks(ctx context.Context, kind records.Kind, weekIDs []string) (map[string]map[string]records.WeeklyRecord, error)
}

type Service struct {
	roster  rosterReader
	records recordReader
}

func NewService(rosterSvc rosterReader, recordsSvc recordReader) *Service {
	return &Service{roster: rosterSvc, records: recordsSvc}
}

func (s *Service) WeeklyCounts(ctx context.Context, scope, weekID string) (Counts, error) {
	sc, err := ParseScope(scope)
	if err != nil {
		return Counts{}, apierr.Invalid(err.Error())
	}
	if _, err := weekkey.WeekStart(weekID); err != nil {
		return Counts{}, apierr.Invalid("주차 형식이 올바르지 않습니다")
	}

	r, err := s.roster.GetRoster(ctx)
	if err != nil {
		return Counts{}, err
	}
	week, err := s.records.GetWeek(ctx, sc.recordKind(), weekID)
	if err != nil {
		return Counts{}, err
	}
	recs := make(map[string]map[string]records.WeeklyRecord, len(week))
	for id, rec := range week {
		recs[id] = map[string]records.WeeklyRecord{weekID: rec}
	}
	return WeeklyCounts(Snapshot{Roster: r, Records: recs}, sc, weekID), nil
}

func (s *Service) MonthWeeks(year int, month int) ([]string, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, apierr.Invalid("year/month가 올바르지 않습니다")
	}
	return weekkey.MonthWeekIDs(year, time.Month(month)), nil
}

func (s *Service) YearlyRates(ctx context.Context, year int, scope string) ([]MonthRate, error) {
	sc, err := ParseScope(scope)
	if err != nil {
		return nil, apierr.Invalid(err.Error())
	}
	if year < 1 {
		return nil, apierr.Invalid("year가 올바르지 않습니다")
	}

	r, err := s.roster.GetRoster(ctx)
	if err != nil {
		return nil, err
	}
	var weeks []string
	for m := time.January; m <= time.December; m++ {
		weeks = append(weeks, weekkey.MonthWeekIDs(year, m)...)
	}
	recs, err := s.records.GetWeeks(ctx, sc.recordKind(), weeks)
	if err != nil {
		return nil, err
	}
	return YearlyRateByMonth(Snapshot{Roster: r, Records: recs}, sc, year), nil
}
