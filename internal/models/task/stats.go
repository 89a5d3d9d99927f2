package task

import "math"

// Stats — производная статистика по задаче. Считается заново из агрегата,
// нигде не хранится.
type Stats struct {
	PlannedTaskCount             int
	PlannedTaskDurationMinutes   int
	CompletedTaskCount           int
	CompletedTaskDurationMinutes int
	CompletionRate               float64

	HighTaskCount      int
	HighTaskDuration   int
	HighTaskRate       float64
	MediumTaskCount    int
	MediumTaskDuration int
	MediumTaskRate     float64
	LowTaskCount       int
	LowTaskDuration    int
	LowTaskRate        float64
}

// ProjectStats проецирует задачу в статистику. Чистая функция: один и тот же
// агрегат всегда даёт один и тот же результат.
//
// CompletionRate — доля завершённых элементов от общего числа.
// *TaskRate — доля длительности плотности от общей запланированной
// длительности, завершённость здесь не учитывается.
func ProjectStats(t Task) Stats {
	var s Stats

	for _, item := range t.Items {
		minutes := item.DurationTime.Minutes()

		s.PlannedTaskCount++
		s.PlannedTaskDurationMinutes += minutes

		if item.Status == StatusCompleted {
			s.CompletedTaskCount++
			s.CompletedTaskDurationMinutes += minutes
		}

		switch item.Density {
		case DensityHigh:
			s.HighTaskCount++
			s.HighTaskDuration += minutes
		case DensityMedium:
			s.MediumTaskCount++
			s.MediumTaskDuration += minutes
		case DensityLow:
			s.LowTaskCount++
			s.LowTaskDuration += minutes
		}
	}

	if s.PlannedTaskCount > 0 {
		s.CompletionRate = round1(float64(s.CompletedTaskCount) / float64(s.PlannedTaskCount) * 100)
	}

	if s.PlannedTaskDurationMinutes > 0 {
		total := float64(s.PlannedTaskDurationMinutes)
		s.HighTaskRate = round1(float64(s.HighTaskDuration) / total * 100)
		s.MediumTaskRate = round1(float64(s.MediumTaskDuration) / total * 100)
		s.LowTaskRate = round1(float64(s.LowTaskDuration) / total * 100)
	}

	return s
}

// round1 округляет до одного знака, половина уходит от нуля
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// CompletionRate считает незакруглённую долю завершённых элементов,
// используется для сортировки списка
func CompletionRate(t Task) float64 {
	if len(t.Items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range t.Items {
		if item.Status == StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(t.Items)) * 100
}

// CompletedDuration — суммарная длительность завершённых элементов в минутах
func CompletedDuration(t Task) int {
	total := 0
	for _, item := range t.Items {
		if item.Status == StatusCompleted {
			total += item.DurationTime.Minutes()
		}
	}
	return total
}
