package domain

import "fmt"

type Activity string

const (
	ActivityArchery         Activity = "Archery"
	ActivityDolphinRiding   Activity = "Dolphin Riding"
	ActivityBallroomDancing Activity = "Ballroom Dancing"
	ActivityPotionMixing    Activity = "Potion Mixing"
	ActivitySwimming        Activity = "Swimming"
)

// Activities is the fixed vocabulary in menu order (menu index 1 is Archery).
var Activities = []Activity{
	ActivityArchery,
	ActivityDolphinRiding,
	ActivityBallroomDancing,
	ActivityPotionMixing,
	ActivitySwimming,
}

func (a Activity) Valid() bool {
	for _, k := range Activities {
		if a == k {
			return true
		}
	}
	return false
}

// ActivityFromMenu resolves a 1-based menu selection.
func ActivityFromMenu(index int) (Activity, error) {
	if index < 1 || index > len(Activities) {
		return "", NewValidationError("activity", fmt.Sprintf("menu index %d out of range 1..%d", index, len(Activities)))
	}
	return Activities[index-1], nil
}

// ActivityRow is one row of the activity table: venue name plus per-activity membership.
type ActivityRow struct {
	Venue   string
	Offered map[string]bool
}
