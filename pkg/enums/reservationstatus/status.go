package reservationstatus

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the approval state of a table reservation.
type Status string

const (
	Pending   Status = "pending"
	Confirmed Status = "confirmed"
	Declined  Status = "declined"
)

var All = []Status{
	Pending,
	Confirmed,
	Declined,
}

func (s Status) Code() string {
	return string(s)
}

func (s Status) Label() string {
	return cases.Title(language.English).String(string(s))
}

func (s Status) IsValid() bool {
	switch s {
	case Pending, Confirmed, Declined:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	switch s {
	case Confirmed, Declined:
		return true
	case Pending:
		return false
	}
	return false
}

// CanTransitionTo reports whether a reservation in s may move to target.
// Only pending reservations can be decided.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case Pending:
		return target == Confirmed || target == Declined
	case Confirmed, Declined:
		return false
	}
	return false
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if strings.EqualFold(string(s), name) {
			return &s
		}
	}
	return nil
}
