package records

type RecordDTO struct {
	SubjectID      string   `json:"subjectId"`
	WeekID         string   `json:"weekId"`
	Attendance     bool     `json:"attendance"`
	Notes          string   `json:"notes"`
	PrayerRequests []string `json:"prayerRequests"`
}

func (r WeeklyRecord) toDTO() RecordDTO {
	prayers := r.PrayerRequests
	if prayers == nil {
		prayers = []string{}
	}
	return RecordDTO{
		SubjectID:      r.SubjectID,
		WeekID:         r.WeekID,
		Attendance:     r.Attendance,
		Notes:          r.Notes,
		PrayerRequests: prayers,
	}
}

type SetAttendanceRequest struct {
	Week       string `json:"week" binding:"required"`
	Attendance *bool  `json:"attendance" binding:"required"`
}

type SetNotesRequest struct {
	Week  string `json:"week" binding:"required"`
	Notes string `json:"notes"`
}

type AppendPrayerRequest struct {
	Week string `json:"week" binding:"required"`
	Text string `json:"text" binding:"required"`
}
