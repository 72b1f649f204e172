package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihunparkme/aymc-high-school-class/internal/records"
	"github.com/jihunparkme/aymc-high-school-class/internal/roster"
	"github.com/jihunparkme/aymc-high-school-class/internal/weekkey"
)

const week = "2025년 03월 2주차"

func monthWeeks(year, month int) []string {
	return weekkey.MonthWeekIDs(year, time.Month(month))
}

func fixtureRoster() *roster.Roster {
	return &roster.Roster{
		Grades: []roster.GradeNode{
			{
				Grade: roster.Grade{ID: 1, Name: "1학년"},
				Classes: []roster.ClassNode{
					{
						Class: roster.Class{ID: "c1", GradeID: 1, Name: "1반"},
						Students: []roster.Student{
							{ID: "a", ClassID: "c1", Name: "학생A", Gender: "남"},
							{ID: "b", ClassID: "c1", Name: "학생B", Gender: "여"},
							{ID: "c", ClassID: "c1", Name: "학생C", Gender: "남"},
						},
					},
					{
						Class: roster.Class{ID: "c2", GradeID: 1, Name: "2반"},
						Students: []roster.Student{
							{ID: "d", ClassID: "c2", Name: "학생D", Gender: "여"},
						},
					},
				},
			},
			{
				Grade: roster.Grade{ID: 2, Name: "2학년"},
				Classes: []roster.ClassNode{
					{
						Class: roster.Class{ID: "c3", GradeID: 2, Name: "1반"},
						Students: []roster.Student{
							{ID: "e", ClassID: "c3", Name: "학생E", Gender: "남"},
						},
					},
				},
			},
		},
		Teachers: []roster.Teacher{
			{ID: "t1", Name: "김교사"},
			{ID: "t2", Name: "이교사"},
		},
	}
}

func rec(attendance bool) records.WeeklyRecord {
	return records.WeeklyRecord{Attendance: attendance}
}

func TestWeeklyCountsClassScope(t *testing.T) {
	// 3명 반에서 A 출석, B 결석 기록, C 기록 없음 → 1/2/3
	snap := Snapshot{
		Roster: fixtureRoster(),
		Records: map[string]map[string]records.WeeklyRecord{
			"a": {week: rec(true)},
			"b": {week: rec(false)},
		},
	}
	got := WeeklyCounts(snap, Scope{Kind: ScopeClass, ClassID: "c1"}, week)
	assert.Equal(t, Counts{Present: 1, Absent: 2, Total: 3}, got)
}

func TestWeeklyCountsGradeAndAllScope(t *testing.T) {
	snap := Snapshot{
		Roster: fixtureRoster(),
		Records: map[string]map[string]records.WeeklyRecord{
			"a": {week: rec(true)},
			"d": {week: rec(true)},
			"e": {week: rec(true)},
		},
	}
	assert.Equal(t, Counts{Present: 2, Absent: 2, Total: 4},
		WeeklyCounts(snap, Scope{Kind: ScopeGrade, GradeID: 1}, week))
	assert.Equal(t, Counts{Present: 3, Absent: 2, Total: 5},
		WeeklyCounts(snap, Scope{Kind: ScopeAll}, week))
}

func TestWeeklyCountsTeachersScope(t *testing.T) {
	snap := Snapshot{
		Roster: fixtureRoster(),
		Records: map[string]map[string]records.WeeklyRecord{
			"t1": {week: rec(true)},
		},
	}
	assert.Equal(t, Counts{Present: 1, Absent: 1, Total: 2},
		WeeklyCounts(snap, Scope{Kind: ScopeTeachers}, week))
}

func TestWeeklyCountsOtherWeekIgnored(t *testing.T) {
	snap := Snapshot{
		Roster: fixtureRoster(),
		Records: map[string]map[string]records.WeeklyRecord{
			"a": {"2025년 03월 3주차": rec(true)},
		},
	}
	got := WeeklyCounts(snap, Scope{Kind: ScopeClass, ClassID: "c1"}, week)
	assert.Equal(t, Counts{Present: 0, Absent: 3, Total: 3}, got)
}

func TestYearlyRateByMonth(t *testing.T) {
	// c3 반만 (학생 e 한 명): 3월 전 주차 출석이면 3월 rate 100
	r := fixtureRoster()
	recs := map[string]map[string]records.WeeklyRecord{"e": {}}
	marchWeeks := []string{}
	snap := Snapshot{Roster: r, Records: recs}
	for _, w := range monthWeeks(2025, 3) {
		recs["e"][w] = rec(true)
		marchWeeks = append(marchWeeks, w)
	}
	require.NotEmpty(t, marchWeeks)

	rates := YearlyRateByMonth(snap, Scope{Kind: ScopeClass, ClassID: "c3"}, 2025)
	require.Len(t, rates, 12)

	march := rates[2]
	assert.Equal(t, 3, march.Month)
	assert.True(t, march.HasData)
	assert.InDelta(t, 100.0, march.Rate, 0.01)

	// 기록 없는 달은 hasData true(대상은 있으므로), rate 0
	jan := rates[0]
	assert.True(t, jan.HasData)
	assert.InDelta(t, 0.0, jan.Rate, 0.01)
}

func TestYearlyRateByMonthNoSubjects(t *testing.T) {
	snap := Snapshot{Roster: &roster.Roster{}, Records: nil}
	rates := YearlyRateByMonth(snap, Scope{Kind: ScopeAll}, 2025)
	require.Len(t, rates, 12)
	for _, mr := range rates {
		assert.False(t, mr.HasData)
		assert.Zero(t, mr.Rate)
	}
}

func TestYearlyRateRounding(t *testing.T) {
	// 한 명이 6주차 중 1주만 출석 → 16.666... → 16.7
	r := fixtureRoster()
	weeks := monthWeeks(2025, 3)
	require.Len(t, weeks, 6)
	snap := Snapshot{
		Roster:  r,
		Records: map[string]map[string]records.WeeklyRecord{"e": {weeks[0]: rec(true)}},
	}
	rates := YearlyRateByMonth(snap, Scope{Kind: ScopeClass, ClassID: "c3"}, 2025)
	assert.InDelta(t, 16.7, rates[2].Rate, 0.001)
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"", Scope{Kind: ScopeAll}, false},
		{"all", Scope{Kind: ScopeAll}, false},
		{"teachers", Scope{Kind: ScopeTeachers}, false},
		{"grade:2", Scope{Kind: ScopeGrade, GradeID: 2}, false},
		{"class:abc", Scope{Kind: ScopeClass, ClassID: "abc"}, false},
		{"grade:x", Scope{}, true},
		{"students", Scope{}, true},
	}
	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
