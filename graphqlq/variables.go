package graphqlq

// ProductVariables builds variables for GetProducts.
func ProductVariables(limit, page int) map[string]any {
	return map[string]any{
		"limit": limit,
		"page":  page,
	}
}

// StockStatusVariables builds variables for GetStockStatus.
func StockStatusVariables(productIDs []int) map[string]any {
	return map[string]any{
		"productIds": productIDs,
	}
}

// CustomerVariables builds variables for GetCustomerDetails.
func CustomerVariables(customerID int) map[string]any {
	return map[string]any{
		"customerId": customerID,
	}
}

// ProductAnalyticsVariables builds variables for GetProductAnalytics.
func ProductAnalyticsVariables(productID int) map[string]any {
	return map[string]any{
		"productId": productID,
	}
}

// ProductsRequest builds a complete GetProducts request.
func ProductsRequest(limit, page int) Request {
	return Request{Query: GetProducts, Variables: ProductVariables(limit, page)}
}

// OrdersRequest builds a complete GetOrders request.
func OrdersRequest(limit, page int) Request {
	return Request{Query: GetOrders, Variables: ProductVariables(limit, page)}
}
