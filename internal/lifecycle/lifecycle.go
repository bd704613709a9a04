// Package lifecycle holds the status state machine applied after every
// successful export run.
package lifecycle

import "github.com/glowlane/catalog-sync-backend/pkg/enums"

// Transition maps a current status to the status it advances to.
type Transition struct {
	From enums.LifecycleStatus
	To   enums.LifecycleStatus
}

// Transitions lists every advancing rule in application order. EXIST rows must
// move to NOT_READY before NEW/UPD rows become EXIST, otherwise a row freshly
// promoted to EXIST would be demoted in the same run.
func Transitions() []Transition {
	return []Transition{
		{From: enums.LifecycleStatusExported, To: enums.LifecycleStatusNotReady},
		{From: enums.LifecycleStatusUpdated, To: enums.LifecycleStatusExported},
		{From: enums.LifecycleStatusNew, To: enums.LifecycleStatusExported},
	}
}

// Advance returns the status a row holds after a successful export.
// NOT_READY is absorbing: only a later reconciliation moves such a row again.
func Advance(status enums.LifecycleStatus) enums.LifecycleStatus {
	for _, t := range Transitions() {
		if t.From == status {
			return t.To
		}
	}
	return status
}

// DeriveParentStatus computes a product's export status from the statuses of
// its variants: NEW only when every variant is NEW, UPD when any variant
// changed, EXIST otherwise.
func DeriveParentStatus(variants []enums.LifecycleStatus) enums.LifecycleStatus {
	if len(variants) > 0 {
		allNew := true
		for _, s := range variants {
			if s != enums.LifecycleStatusNew {
				allNew = false
				break
			}
		}
		if allNew {
			return enums.LifecycleStatusNew
		}
		for _, s := range variants {
			if s == enums.LifecycleStatusUpdated {
				return enums.LifecycleStatusUpdated
			}
		}
	}
	return enums.LifecycleStatusExported
}
