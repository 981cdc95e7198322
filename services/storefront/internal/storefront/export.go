package storefront

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet       = "Orders"
	reservationsSheet = "Reservations"
	summarySheet      = "Summary"
)

var (
	orderColumns       = []string{"Order ID", "Placed At", "Customer", "Phone", "Email", "Items", "Total", "Status", "Payment"}
	reservationColumns = []string{"Reservation ID", "Name", "Email", "Phone", "Date", "Time", "Guests", "Status", "Notes"}
)

// ExportWorkbook builds the admin spreadsheet: one row per order, one row
// per reservation and a summary sheet with the stats and top items. Callers
// must Close the file.
func ExportWorkbook(orders []Order, reservations []Reservation, stats Stats, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot rename sheet: %w", err)
	}

	if err := writeRow(f, ordersSheet, 1, toAny(orderColumns)); err != nil {
		f.Close()
		return nil, err
	}
	for i, order := range orders {
		row := []any{
			order.ID,
			order.CreatedTime().In(loc).Format("2006-01-02 15:04"),
			order.CustomerName,
			order.CustomerPhone,
			order.CustomerEmail,
			describeItems(order.Items),
			order.Total,
			order.Status.Label(),
			order.PaymentMethod.Label(),
		}
		if err := writeRow(f, ordersSheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(reservationsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot create reservations sheet: %w", err)
	}
	if err := writeRow(f, reservationsSheet, 1, toAny(reservationColumns)); err != nil {
		f.Close()
		return nil, err
	}
	for i, res := range reservations {
		row := []any{res.ID, res.Name, res.Email, res.Phone, res.Date, res.Time, res.Guests, res.Status.Label(), res.Notes}
		if err := writeRow(f, reservationsSheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot create summary sheet: %w", err)
	}

	rows := [][]any{
		{"Total Orders", stats.TotalOrders},
		{"Total Revenue", stats.TotalRevenue},
		{},
		{"Top Item", "Count"},
	}
	for _, item := range stats.TopItems {
		rows = append(rows, []any{item.Name, item.Count})
	}
	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("cannot write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func describeItems(items []CartItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
