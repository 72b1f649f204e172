package records

import (
	"context"
	"sort"
)

// DB 없이 서비스 규약을 검증하기 위한 인메모리 스토어.
// (subject_id, week_id) UNIQUE upsert 의미론을 그대로 흉내낸다.
type memStore struct {
	data map[Kind]map[string]map[string]*recordRow // kind → subject → week → row
}

func newMemStore() *memStore {
	return &memStore{data: map[Kind]map[string]map[string]*recordRow{
		KindStudent: {},
		KindTeacher: {},
	}}
}

func (m *memStore) row(kind Kind, subjectID, weekID string, create bool) *recordRow {
	bySubject := m.data[kind]
	if bySubject[subjectID] == nil {
		if !create {
			return nil
		}
		bySubject[subjectID] = map[string]*recordRow{}
	}
	r := bySubject[subjectID][weekID]
	if r == nil && create {
		r = &recordRow{SubjectID: subjectID, WeekID: weekID}
		bySubject[subjectID][weekID] = r
	}
	return r
}

func (m *memStore) Get(_ context.Context, kind Kind, subjectID, weekID string) (*WeeklyRecord, error) {
	r := m.row(kind, subjectID, weekID, false)
	if r == nil {
		return nil, nil
	}
	rec := r.toModel()
	return &rec, nil
}

func (m *memStore) SetAttendance(_ context.Context, kind Kind, subjectID, weekID string, attendance bool) (WeeklyRecord, error) {
	r := m.row(kind, subjectID, weekID, true)
	r.Attendance = attendance
	return r.toModel(), nil
}

func (m *memStore) SetNotes(_ context.Context, kind Kind, subjectID, weekID, notes string) (WeeklyRecord, error) {
	r := m.row(kind, subjectID, weekID, true)
	r.Notes = notes
	return r.toModel(), nil
}

func (m *memStore) SetPrayerBlob(_ context.Context, kind Kind, subjectID, weekID, blob string) (WeeklyRecord, error) {
	r := m.row(kind, subjectID, weekID, true)
	r.Prayers = blob
	return r.toModel(), nil
}

func (m *memStore) ListWeek(_ context.Context, kind Kind, weekID string) ([]WeeklyRecord, error) {
	var out []WeeklyRecord
	for _, weeks := range m.data[kind] {
		if r, ok := weeks[weekID]; ok {
			out = append(out, r.toModel())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out, nil
}

func (m *memStore) ListWeeks(_ context.Context, kind Kind, weekIDs []string) ([]WeeklyRecord, error) {
	want := make(map[string]struct{}, len(weekIDs))
	for _, w := range weekIDs {
		want[w] = struct{}{}
	}
	var out []WeeklyRecord
	for _, weeks := range m.data[kind] {
		for w, r := range weeks {
			if _, ok := want[w]; ok {
				out = append(out, r.toModel())
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeekID != out[j].WeekID {
			return out[i].WeekID < out[j].WeekID
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	return out, nil
}

func (m *memStore) ListAll(_ context.Context, kind Kind) ([]WeeklyRecord, error) {
	var out []WeeklyRecord
	for _, weeks := range m.data[kind] {
		for _, r := range weeks {
			out = append(out, r.toModel())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubjectID != out[j].SubjectID {
			return out[i].SubjectID < out[j].SubjectID
		}
		return out[i].WeekID < out[j].WeekID
	})
	return out, nil
}
