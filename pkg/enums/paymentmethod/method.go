package paymentmethod

import "strings"

type Method string

const (
	COD    Method = "cod"
	Online Method = "online"
)

var All = []Method{
	COD,
	Online,
}

func (m Method) Code() string {
	return string(m)
}

func (m Method) Label() string {
	switch m {
	case COD:
		return "Cash on Delivery"
	case Online:
		return "Online"
	}
	return string(m)
}

func (m Method) IsValid() bool {
	switch m {
	case COD, Online:
		return true
	}
	return false
}

// ByName returns the payment method for a given name, or nil if not found
func ByName(name string) *Method {
	for _, m := range All {
		if strings.EqualFold(string(m), name) {
			return &m
		}
	}
	return nil
}
