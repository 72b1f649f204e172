package snapshot

// 외부로 고정된 스냅샷 JSON 형식. data/dailyData 모양은 예전 내보내기 파일과
// 호환되어야 하므로 바꾸면 안 된다. teacherDailyData는 나중에 추가된 선택 항목.

type RecordJSON struct {
	PrayerRequests []string `json:"prayerRequests"`
	Notes          string   `json:"notes"`
	Attendance     bool     `json:"attendance"`
}

type StudentJSON struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Gender    string `json:"gender,omitempty"`
}

type ClassJSON struct {
	ClassID    string        `json:"classId"`
	ClassName  string        `json:"className"`
	TeacherIDs []string      `json:"teacherIds,omitempty"`
	Students   []StudentJSON `json:"students"`
}

type GradeJSON struct {
	GradeID   string      `json:"gradeId"`
	GradeName string      `json:"gradeName"`
	Classes   []ClassJSON `json:"classes"`
}

type TeacherJSON struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Gender *string `json:"gender,omitempty"`
}

type DataJSON struct {
	Grades   []GradeJSON   `json:"grades"`
	Teachers []TeacherJSON `json:"teachers,omitempty"`
}

type File struct {
	Data             DataJSON                         `json:"data"`
	DailyData        map[string]map[string]RecordJSON `json:"dailyData"`
	TeacherDailyData map[string]map[string]RecordJSON `json:"teacherDailyData,omitempty"`
}

// 가져오기 결과 요약
type ImportSummary struct {
	Grades         int `json:"grades"`
	Classes        int `json:"classes"`
	Students       int `json:"students"`
	Teachers       int `json:"teachers"`
	StudentRecords int `json:"studentRecords"`
	TeacherRecords int `json:"teacherRecords"`
	SkippedRecords int `json:"skippedRecords"`
}
