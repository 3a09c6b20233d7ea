package analytics

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/c360/merchproxy/errors"
)

// ID is an identifier that tolerates both JSON strings and numbers, since
// commerce APIs are inconsistent about numeric identifier types.
type ID string

// UnmarshalJSON accepts "42", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WrapInvalid(err, "analytics", "ID.UnmarshalJSON", "string decode")
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.WrapInvalid(err, "analytics", "ID.UnmarshalJSON", "number decode")
	}
	*id = ID(n.String())
	return nil
}

// Money is a monetary amount that tolerates both JSON numbers and numeric
// strings. Absent and null values decode to zero rather than failing the
// whole computation.
type Money float64

// UnmarshalJSON accepts 12.5, "12.5", "" and null.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WrapInvalid(err, "analytics", "Money.UnmarshalJSON", "string decode")
		}
		if s == "" {
			*m = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.WrapInvalid(err, "analytics", "Money.UnmarshalJSON", "numeric string parse")
		}
		*m = Money(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.WrapInvalid(err, "analytics", "Money.UnmarshalJSON", "number decode")
	}
	*m = Money(f)
	return nil
}

// Variant is a specific SKU/price/stock combination belonging to a product.
type Variant struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name"`
	SKU   string `json:"sku"`
	Price Money  `json:"price"`
	Stock int    `json:"stock"`
}

// Product is a read-only input record; the engine never mutates it.
type Product struct {
	ID       ID        `json:"id,omitempty"`
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// OrderItem is a single line in an order.
type OrderItem struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Price       Money  `json:"price"`
}

// Customer identifies the buyer on an order. Orders without a customer are
// anonymous and excluded from customer grouping only.
type Customer struct {
	ID        ID     `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Order is a read-only input record. Items may be empty and Customer may be
// absent; neither fails aggregation.
type Order struct {
	ID       ID          `json:"id"`
	Number   ID          `json:"number,omitempty"`
	Status   string      `json:"status,omitempty"`
	Created  string      `json:"created"`
	Items    []OrderItem `json:"items"`
	Customer *Customer   `json:"customer,omitempty"`
}

// Stock distribution bucket labels.
const (
	BucketOutOfStock  = "out_of_stock"
	BucketLowStock    = "low_stock"
	BucketMediumStock = "medium_stock"
	BucketHighStock   = "high_stock"
)

// Bucket boundaries: stock of exactly 0 is out of stock, [1,5) low,
// [5,20) medium, [20,inf) high.
const (
	lowStockThreshold    = 5
	mediumStockThreshold = 20
)

// OutOfStockItem identifies a variant with zero stock.
type OutOfStockItem struct {
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name"`
	SKU         string `json:"sku"`
}

// LowStockItem identifies a variant with stock below the low threshold.
type LowStockItem struct {
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name"`
	SKU         string `json:"sku"`
	Stock       int    `json:"stock"`
}

// StockInsights summarizes inventory state across all products.
type StockInsights struct {
	LowStockItems     []LowStockItem   `json:"low_stock_items"`
	OutOfStockItems   []OutOfStockItem `json:"out_of_stock_items"`
	StockDistribution map[string]int   `json:"stock_distribution"`
	TotalItems        int              `json:"total_items"`
	TotalValue        float64          `json:"total_value"`
}

// PopularProduct is a product ranked by total ordered quantity.
type PopularProduct struct {
	Name          string  `json:"name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// CustomerSegments buckets customers by how many orders they placed:
// 1 order one_time, 2-3 occasional, 4-6 regular, 7+ frequent.
type CustomerSegments struct {
	OneTime    int `json:"one_time"`
	Occasional int `json:"occasional"`
	Regular    int `json:"regular"`
	Frequent   int `json:"frequent"`
}

// CustomerMetrics summarizes customer behavior across the order set.
type CustomerMetrics struct {
	TotalCustomers     int              `json:"total_customers"`
	AverageOrderValue  float64          `json:"average_order_value"`
	RepeatCustomerRate float64          `json:"repeat_customer_rate"`
	CustomerSegments   CustomerSegments `json:"customer_segments"`
}

// OrderTrends summarizes order activity over time.
type OrderTrends struct {
	DailyOrderCount     map[string]int   `json:"daily_order_count"`
	AverageOrdersPerDay float64          `json:"average_orders_per_day"`
	TotalOrders         int              `json:"total_orders"`
	PopularProducts     []PopularProduct `json:"popular_products"`
	CustomerMetrics     CustomerMetrics  `json:"customer_metrics"`
}
