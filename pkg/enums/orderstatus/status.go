package orderstatus

import "strings"

// Status is the lifecycle state of a storefront order.
type Status string

const (
	New       Status = "New"
	Preparing Status = "Preparing"
	Ready     Status = "Ready"
	Completed Status = "Completed"
	Cancelled Status = "Cancelled"
)

var All = []Status{
	New,
	Preparing,
	Ready,
	Completed,
	Cancelled,
}

func (s Status) Code() string {
	return string(s)
}

func (s Status) Label() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case New, Preparing, Ready, Completed, Cancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	switch s {
	case Completed, Cancelled:
		return true
	case New, Preparing, Ready:
		return false
	}
	return false
}

// Next lists the states reachable from s in one step.
func (s Status) Next() []Status {
	switch s {
	case New:
		return []Status{Preparing, Cancelled}
	case Preparing:
		return []Status{Ready, Cancelled}
	case Ready:
		return []Status{Completed, Cancelled}
	case Completed, Cancelled:
		return nil
	}
	return nil
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range s.Next() {
		if next == target {
			return true
		}
	}
	return false
}

// ByName returns the status for a given name, or nil if not found.
// Matching is case-insensitive.
func ByName(name string) *Status {
	for _, s := range All {
		if strings.EqualFold(string(s), name) {
			return &s
		}
	}
	return nil
}
