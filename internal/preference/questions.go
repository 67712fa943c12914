package preference

import "github.com/vqdung71104/student-management-sub001/internal/models"

var prompts = map[models.Dimension]string{
	models.DimensionTimePeriod:      "Bạn muốn học vào buổi nào? (sáng / chiều / tối / không quan tâm)",
	models.DimensionAvoidEarlyStart: "Bạn có muốn tránh các lớp bắt đầu quá sớm không? (ví dụ: \"không muốn học trước 7h\" hoặc \"không\")",
	models.DimensionAvoidLateEnd:    "Bạn có muốn tránh các lớp kết thúc muộn không? (ví dụ: \"không muốn học sau 17h30\" hoặc \"không\")",
	models.DimensionDays:            "Bạn muốn tránh học vào những ngày nào? (ví dụ: \"thứ 2,3\" hoặc \"chủ nhật\"; trả lời \"không\" nếu không có)",
}

var guidance = map[models.Dimension]string{
	models.DimensionTimePeriod:      "Mình chưa hiểu buổi học bạn chọn. Hãy trả lời một trong: sáng, chiều, tối hoặc không quan tâm.",
	models.DimensionAvoidEarlyStart: "Hãy trả lời \"có\" hoặc \"không\", có thể kèm giờ, ví dụ \"không muốn học trước 7h30\".",
	models.DimensionAvoidLateEnd:    "Hãy trả lời \"có\" hoặc \"không\", có thể kèm giờ, ví dụ \"không muốn học sau 17h\".",
	models.DimensionDays:            "Mình chưa nhận ra ngày nào. Hãy ghi như \"thứ 2,3,4\", \"t7\" hoặc \"chủ nhật\".",
}

func guidanceFor(dim models.Dimension) string {
	return guidance[dim]
}

// DefaultQuestions returns the fixed question order:
// time period, early start, late end, days to avoid.
func DefaultQuestions() []models.Question {
	return []models.Question{
		{Dimension: models.DimensionTimePeriod, Prompt: prompts[models.DimensionTimePeriod]},
		{Dimension: models.DimensionAvoidEarlyStart, Prompt: prompts[models.DimensionAvoidEarlyStart]},
		{Dimension: models.DimensionAvoidLateEnd, Prompt: prompts[models.DimensionAvoidLateEnd]},
		{Dimension: models.DimensionDays, Framing: models.DayFramingAvoid, Prompt: prompts[models.DimensionDays]},
	}
}
