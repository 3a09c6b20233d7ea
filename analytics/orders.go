package analytics

import (
	"sort"

	"github.com/c360/merchproxy/pkg/timestamp"
)

// popularProductsLimit caps the popularity ranking at the top entries.
const popularProductsLimit = 10

// AnalyzeOrderTrends computes order-trend insights in four independent
// passes over the order list: daily counts, product popularity, average
// order value, and customer behavior.
func AnalyzeOrderTrends(orders []Order) OrderTrends {
	return OrderTrends{
		DailyOrderCount:     dailyOrderCounts(orders),
		AverageOrdersPerDay: averageOrdersPerDay(orders),
		TotalOrders:         len(orders),
		PopularProducts:     popularProducts(orders),
		CustomerMetrics:     analyzeCustomerBehavior(orders),
	}
}

// dailyOrderCounts groups orders by the calendar date of their creation
// timestamp. Orders with unparseable timestamps are excluded from the
// grouping only; they still count everywhere else.
func dailyOrderCounts(orders []Order) map[string]int {
	counts := map[string]int{}
	for _, order := range orders {
		if key, ok := timestamp.ParseDayKey(order.Created); ok {
			counts[key]++
		}
	}
	return counts
}

// averageOrdersPerDay is the mean order count across all represented dates.
func averageOrdersPerDay(orders []Order) float64 {
	counts := dailyOrderCounts(orders)
	if len(counts) == 0 {
		return 0
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return float64(total) / float64(len(counts))
}

// popularProducts accumulates per-product total quantity and revenue across
// every order item, then ranks descending by quantity. Ties keep the
// original first-encounter order; the result is truncated to the top 10.
func popularProducts(orders []Order) []PopularProduct {
	type accumulator struct {
		index    int // first-encounter position, preserved on ties
		quantity int
		revenue  float64
	}

	totals := map[string]*accumulator{}
	var names []string

	for _, order := range orders {
		for _, item := range order.Items {
			acc, seen := totals[item.ProductName]
			if !seen {
				acc = &accumulator{index: len(names)}
				totals[item.ProductName] = acc
				names = append(names, item.ProductName)
			}
			acc.quantity += item.Quantity
			acc.revenue += float64(item.Quantity) * float64(item.Price)
		}
	}

	ranked := make([]PopularProduct, 0, len(names))
	for _, name := range names {
		acc := totals[name]
		ranked = append(ranked, PopularProduct{
			Name:          name,
			TotalQuantity: acc.quantity,
			TotalRevenue:  acc.revenue,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalQuantity > ranked[j].TotalQuantity
	})

	if len(ranked) > popularProductsLimit {
		ranked = ranked[:popularProductsLimit]
	}
	return ranked
}

// orderValue sums quantity*price across an order's items.
// Orders with no items contribute 0.
func orderValue(order Order) float64 {
	total := 0.0
	for _, item := range order.Items {
		total += float64(item.Quantity) * float64(item.Price)
	}
	return total
}

// averageOrderValue averages orderValue across all orders, guarding the
// empty list against division by zero.
func averageOrderValue(orders []Order) float64 {
	if len(orders) == 0 {
		return 0
	}

	total := 0.0
	for _, order := range orders {
		total += orderValue(order)
	}
	return total / float64(len(orders))
}

// analyzeCustomerBehavior groups orders by customer identifier. Anonymous
// orders are excluded from the grouping only; they still count toward the
// average order value.
func analyzeCustomerBehavior(orders []Order) CustomerMetrics {
	orderCounts := map[ID]int{}
	for _, order := range orders {
		if order.Customer == nil || order.Customer.ID == "" {
			continue
		}
		orderCounts[order.Customer.ID]++
	}

	return CustomerMetrics{
		TotalCustomers:     len(orderCounts),
		AverageOrderValue:  averageOrderValue(orders),
		RepeatCustomerRate: repeatCustomerRate(orderCounts),
		CustomerSegments:   segmentCustomers(orderCounts),
	}
}

// repeatCustomerRate is the share of distinct customers with more than one
// order, 0 when there are no customers.
func repeatCustomerRate(orderCounts map[ID]int) float64 {
	if len(orderCounts) == 0 {
		return 0
	}

	repeat := 0
	for _, n := range orderCounts {
		if n > 1 {
			repeat++
		}
	}
	return float64(repeat) / float64(len(orderCounts))
}

// segmentCustomers buckets customers by order count: exactly 1 one_time,
// 2-3 occasional, 4-6 regular, 7+ frequent.
func segmentCustomers(orderCounts map[ID]int) CustomerSegments {
	var segments CustomerSegments
	for _, n := range orderCounts {
		switch {
		case n == 1:
			segments.OneTime++
		case n <= 3:
			segments.Occasional++
		case n <= 6:
			segments.Regular++
		default:
			segments.Frequent++
		}
	}
	return segments
}
