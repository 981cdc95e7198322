package storefront

import (
	"sort"

	"github.com/appetiteclub/storefront/pkg/enums/orderstatus"
	"github.com/shopspring/decimal"
)

const topItemsLimit = 5

type TopItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats is derived from the orders collection on demand.
type Stats struct {
	TotalOrders  int       `json:"totalOrders"`
	TotalRevenue float64   `json:"totalRevenue"`
	TopItems     []TopItem `json:"topItems"`
}

// ComputeStats aggregates orders. Revenue only counts completed orders while
// top items count every order regardless of status. Items with equal counts
// keep the order in which their name was first seen.
func ComputeStats(orders []Order) Stats {
	revenue := decimal.Zero
	counts := make(map[string]int)
	var firstSeen []string

	for _, order := range orders {
		if order.Status == orderstatus.Completed {
			revenue = revenue.Add(decimal.NewFromFloat(order.Total))
		}

		for _, item := range order.Items {
			if item.Name == "" {
				continue
			}
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}
			if _, ok := counts[item.Name]; !ok {
				firstSeen = append(firstSeen, item.Name)
			}
			counts[item.Name] += qty
		}
	}

	top := make([]TopItem, 0, len(firstSeen))
	for _, name := range firstSeen {
		top = append(top, TopItem{Name: name, Count: counts[name]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > topItemsLimit {
		top = top[:topItemsLimit]
	}

	return Stats{
		TotalOrders:  len(orders),
		TotalRevenue: revenue.InexactFloat64(),
		TopItems:     top,
	}
}
