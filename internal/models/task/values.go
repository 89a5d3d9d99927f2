package task

import "fmt"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type Density string

const (
	DensityHigh   Density = "High"
	DensityMedium Density = "Medium"
	DensityLow    Density = "Low"
)

type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

// DurationTime — длительность в минутах, только фиксированные значения
type DurationTime int

const (
	Duration15 DurationTime = 15
	Duration30 DurationTime = 30
	Duration45 DurationTime = 45
	Duration60 DurationTime = 60
)

func ParsePriority(v string) (Priority, error) {
	switch Priority(v) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(v), nil
	}
	return "", fmt.Errorf("недопустимое значение priority: %q", v)
}

func ParseDensity(v string) (Density, error) {
	switch Density(v) {
	case DensityHigh, DensityMedium, DensityLow:
		return Density(v), nil
	}
	return "", fmt.Errorf("недопустимое значение density: %q", v)
}

func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return Status(v), nil
	}
	return "", fmt.Errorf("недопустимое значение status: %q", v)
}

func ParseDurationTime(v int) (DurationTime, error) {
	switch DurationTime(v) {
	case Duration15, Duration30, Duration45, Duration60:
		return DurationTime(v), nil
	}
	return 0, fmt.Errorf("недопустимое значение durationTime: %d", v)
}

// Minutes возвращает числовое значение длительности
func (d DurationTime) Minutes() int {
	return int(d)
}
