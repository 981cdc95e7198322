package storefront

import (
	"time"

	"github.com/appetiteclub/storefront/pkg/enums/reservationstatus"
)

type Reservation struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Email     string                   `json:"email"`
	Phone     string                   `json:"phone"`
	Date      string                   `json:"date"`
	Time      string                   `json:"time"`
	Guests    int                      `json:"guests"`
	Notes     string                   `json:"notes,omitempty"`
	Status    reservationstatus.Status `json:"status"`
	CreatedAt int64                    `json:"createdAt"` // unix millis
}

func (r Reservation) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

type ReservationDraft struct {
	Name   string
	Email  string
	Phone  string
	Date   string
	Time   string
	Guests int
	Notes  string
}

const defaultGuests = 2

func (d ReservationDraft) build(id string, now time.Time) Reservation {
	guests := d.Guests
	if guests <= 0 {
		guests = defaultGuests
	}
	return Reservation{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Date:      d.Date,
		Time:      d.Time,
		Guests:    guests,
		Notes:     d.Notes,
		Status:    reservationstatus.Pending,
		CreatedAt: now.UnixMilli(),
	}
}
