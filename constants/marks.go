package constants

// Marks bounds for a review record. Out-of-range model output is clamped
// into this range rather than rejected.
const (
	MinMarks = 0
	MaxMarks = 100
)

// ClampMarks forces marks into [MinMarks, MaxMarks].
func ClampMarks(m int) int {
	if m < MinMarks {
		return MinMarks
	}
	if m > MaxMarks {
		return MaxMarks
	}
	return m
}
