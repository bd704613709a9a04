package enums

import "fmt"

// LifecycleStatus tracks how recently a catalog row changed relative to its
// last export.
type LifecycleStatus string

const (
	// LifecycleStatusNew marks a row created on first sight of its SKU.
	LifecycleStatusNew LifecycleStatus = "NEW"
	// LifecycleStatusUpdated marks a row reconciled again before being exported.
	LifecycleStatusUpdated LifecycleStatus = "UPD"
	// LifecycleStatusExported marks a row exported once and unchanged since.
	LifecycleStatusExported LifecycleStatus = "EXIST"
	// LifecycleStatusNotReady marks a row exported twice with no intervening
	// change; it is excluded from future feeds until reconciled again.
	LifecycleStatusNotReady LifecycleStatus = "NOT_READY"
)

var validLifecycleStatuses = []LifecycleStatus{
	LifecycleStatusNew,
	LifecycleStatusUpdated,
	LifecycleStatusExported,
	LifecycleStatusNotReady,
}

// String implements fmt.Stringer.
func (s LifecycleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LifecycleStatus.
func (s LifecycleStatus) IsValid() bool {
	for _, candidate := range validLifecycleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLifecycleStatus converts raw input into a LifecycleStatus.
func ParseLifecycleStatus(value string) (LifecycleStatus, error) {
	for _, candidate := range validLifecycleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lifecycle status %q", value)
}

// ExportableStatuses lists every status selected by an export run.
func ExportableStatuses() []LifecycleStatus {
	return []LifecycleStatus{
		LifecycleStatusUpdated,
		LifecycleStatusNew,
		LifecycleStatusExported,
		LifecycleStatusNotReady,
	}
}
