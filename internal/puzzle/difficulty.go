package puzzle

import "time"

const (
	// MinSize is the smallest playable grid.
	MinSize = 3
	// DefaultSize replaces any size below MinSize.
	DefaultSize = 4

	defaultTimeLimit = 300
	panicThreshold   = 30

	minReward  = 10
	baseReward = 50
)

var timeLimits = map[int]int{
	3:  120,
	4:  300,
	6:  600,
	8:  900,
	10: 1200,
}

var difficultyLabels = map[int]string{
	3:  "3x3",
	4:  "4x4",
	6:  "6x6",
	8:  "8x8",
	10: "10x10",
}

// CustomLabel names any grid size without a fixed label.
const CustomLabel = "Custom"

// NormalizeSize clamps invalid sizes to DefaultSize.
func NormalizeSize(size int) int {
	if size < MinSize {
		return DefaultSize
	}
	return size
}

// TimeLimit returns the countdown, in seconds, for a grid size.
func TimeLimit(size int) int {
	if limit, ok := timeLimits[size]; ok {
		return limit
	}
	return defaultTimeLimit
}

// DifficultyLabel returns the label reported to the backend for a grid size.
func DifficultyLabel(size int) string {
	if label, ok := difficultyLabels[size]; ok {
		return label
	}
	return CustomLabel
}

// SizeForLabel is the inverse of DifficultyLabel. ok is false for labels
// that do not name a fixed size.
func SizeForLabel(label string) (size int, ok bool) {
	for s, l := range difficultyLabels {
		if l == label {
			return s, true
		}
	}
	return 0, false
}

// ShuffleMoves is the number of random slides used to scramble a board.
func ShuffleMoves(size int) int {
	if size == 3 {
		return 20
	}
	return size * 15
}

// Reward is the dust earned for a win that took elapsed seconds.
func Reward(elapsed int) int {
	r := baseReward - elapsed/10
	if r < minReward {
		return minReward
	}
	return r
}

// PowerUpKind identifies one of the paid session modifiers.
type PowerUpKind string

const (
	Freeze  PowerUpKind = "freeze"
	Hint    PowerUpKind = "hint"
	Preview PowerUpKind = "preview"
)

// PowerUpSpec holds the fixed price and duration of a power-up.
type PowerUpSpec struct {
	Kind     PowerUpKind   `json:"kind"`
	Cost     int           `json:"cost"`
	Duration time.Duration `json:"-"`
}

var powerUps = map[PowerUpKind]PowerUpSpec{
	Freeze:  {Kind: Freeze, Cost: 50, Duration: 10 * time.Second},
	Hint:    {Kind: Hint, Cost: 30, Duration: 2 * time.Second},
	Preview: {Kind: Preview, Cost: 75, Duration: 3 * time.Second},
}

// LookupPowerUp returns the spec for kind.
func LookupPowerUp(kind PowerUpKind) (PowerUpSpec, bool) {
	spec, ok := powerUps[kind]
	return spec, ok
}
