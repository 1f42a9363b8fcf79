package domain

import "time"

type PriorityLevel string

const (
	PriorityLevelLow    PriorityLevel = "LOW"
	PriorityLevelMedium PriorityLevel = "MEDIUM"
	PriorityLevelHigh   PriorityLevel = "HIGH"
)

// Scoring weights. Additive, tuned so the realistic maximum
// (BASE + SUITE + VIP + URGENT = 95) stays under 100.
const (
	PriorityBase         = 30
	BonusSuite           = 20
	BonusDeluxe          = 10
	BonusVIP             = 25
	BonusUrgentArrival   = 20
	BonusSameFloor       = 10
	BonusAdjacentFloor   = 5
	UrgentArrivalWindow  = 2 * time.Hour
	levelHighThreshold   = 80
	levelMediumThreshold = 50
)

// CalculatePriority maps room and arrival attributes to an urgency score.
// Pure and deterministic given now; the urgent-arrival bonus applies when the
// next arrival lies within [now, now+2h].
func CalculatePriority(roomType RoomType, vip bool, nextArrival *time.Time, now time.Time) int {
	score := PriorityBase

	switch roomType {
	case RoomTypeSuite:
		score += BonusSuite
	case RoomTypeDeluxe:
		score += BonusDeluxe
	}

	if vip {
		score += BonusVIP
	}

	if nextArrival != nil {
		until := nextArrival.Sub(now)
		if until >= 0 && until <= UrgentArrivalWindow {
			score += BonusUrgentArrival
		}
	}

	return score
}

// CalculateFloorMatch ranks how well a worker's floor suits a task. It is a
// pure distance heuristic used only by auto-assignment, never folded into the
// stored task score.
func CalculateFloorMatch(taskFloor, workerFloor int) int {
	switch diff := taskFloor - workerFloor; {
	case diff == 0:
		return BonusSameFloor
	case diff == 1 || diff == -1:
		return BonusAdjacentFloor
	default:
		return 0
	}
}

// PriorityLevelFor buckets a score into the coarse level. Boundaries are
// inclusive on the lower edge of each band.
func PriorityLevelFor(score int) PriorityLevel {
	switch {
	case score >= levelHighThreshold:
		return PriorityLevelHigh
	case score >= levelMediumThreshold:
		return PriorityLevelMedium
	default:
		return PriorityLevelLow
	}
}
