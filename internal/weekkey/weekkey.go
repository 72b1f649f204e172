// Package weekkey는 날짜를 "YYYY년 MM월 W주차" 형식의 주차 식별자로 변환한다.
// 주차 번호는 ISO 주가 아니라 월 기준으로 매월 1일에서 다시 시작한다.
// 과거 기록과의 호환을 위해 이 계산 방식은 바꾸면 안 된다.
package weekkey

import (
	"fmt"
	"time"
)

// WeekOfMonth: ceil((일 + 해당 월 1일의 요일) / 7). 일요일=0.
func WeekOfMonth(t time.Time) int {
	firstDay := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	first := int(firstDay.Weekday())
	return (t.Day() + first + 6) / 7
}

// WeekID: 예) 2025-03-09 → "2025년 03월 2주차"
func WeekID(t time.Time) string {
	return fmt.Sprintf("%d년 %02d월 %d주차", t.Year(), int(t.Month()), WeekOfMonth(t))
}

// WeekStart는 주차 식별자가 가리키는 주(일요일 시작)의 첫날을 복원한다.
// 월 경계에 걸친 주는 전월 날짜가 나올 수 있다. 정확한 원본 날짜 복원은 불가능하고
// 주차 구간의 시작일만 복원된다.
func WeekStart(weekID string) (time.Time, error) {
	var year, month, week int
	if _, err := fmt.Sscanf(weekID, "%d년 %d월 %d주차", &year, &month, &week); err != nil {
		return time.Time{}, fmt.Errorf("잘못된 주차 형식: %q", weekID)
	}
	if month < 1 || month > 12 || week < 1 {
		return time.Time{}, fmt.Errorf("잘못된 주차 형식: %q", weekID)
	}
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	offset := (week-1)*7 - int(firstDay.Weekday())
	return firstDay.AddDate(0, 0, offset), nil
}

func Next(t time.Time) time.Time     { return t.AddDate(0, 0, 7) }
func Previous(t time.Time) time.Time { return t.AddDate(0, 0, -7) }
func ThisWeek() time.Time            { return time.Now() }

// MonthWeekIDs는 해당 월의 1일부터 말일까지 하루씩 주차를 계산해
// 등장 순서대로(=시간순) 중복 없이 모은다. 한 달은 4~6개 주차가 된다.
func MonthWeekIDs(year int, month time.Month) []string {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
	seen := make(map[string]struct{}, 6)
	var ids []string
	for day := 1; day <= last; day++ {
		id := WeekID(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
