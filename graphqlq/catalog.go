// Package graphqlq holds the catalog of named GraphQL query templates for
// the upstream commerce API, plus the variable-construction helpers that
// accompany them. Templates are data: the proxy forwards whatever query the
// caller sends, and these exist for clients that want well-known requests.
package graphqlq

// Request is the wire shape of a GraphQL request body.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GetProducts fetches a page of products with their variants.
const GetProducts = `
query GetProducts($limit: Int, $page: Int) {
    products(limit: $limit, page: $page) {
        id
        name
        url
        status
        description
        variants {
            id
            name
            sku
            price
            stock
        }
    }
}
`

// GetWarehouses fetches all warehouses.
const GetWarehouses = `
query GetWarehouses {
    warehouses {
        id
        name
        description
        status
    }
}
`

// GetStockStatus fetches per-warehouse stock for a set of products.
const GetStockStatus = `
query GetStockStatus($productIds: [Int!]) {
    products(where: { id: { in: $productIds } }) {
        id
        name
        variants {
            id
            sku
            stock
            warehouse {
                id
                name
            }
        }
    }
}
`

// GetOrders fetches a page of orders with items and customer.
const GetOrders = `
query GetOrders($limit: Int, $page: Int) {
    orders(limit: $limit, page: $page) {
        id
        number
        status
        created
        modified
        items {
            id
            productName
            quantity
            price
        }
        customer {
            id
            email
            firstName
            lastName
        }
    }
}
`

// GetCustomerDetails fetches a customer with addresses and order history.
const GetCustomerDetails = `
query GetCustomer($customerId: Int) {
    customer(id: $customerId) {
        id
        email
        firstName
        lastName
        addresses {
            street
            city
            country
            zipCode
        }
        orders {
            id
            number
            status
            created
        }
    }
}
`

// GetProductAnalytics fetches recent stock changes and orders for a product.
const GetProductAnalytics = `
query GetProductAnalytics($productId: Int) {
    product(id: $productId) {
        id
        name
        variants {
            id
            sku
            stock
            stockChanges: stockChangeLines(
                sort: [{field: "created", direction: DESC}]
                limit: 10
            ) {
                id
                quantity
                created
            }
        }
        orders: orders(
            where: { items: { productId: { eq: $productId } } }
            limit: 10
        ) {
            id
            created
            items {
                quantity
                price
            }
        }
    }
}
`

// Catalog maps template names to their query text.
var Catalog = map[string]string{
	"GetProducts":         GetProducts,
	"GetWarehouses":       GetWarehouses,
	"GetStockStatus":      GetStockStatus,
	"GetOrders":           GetOrders,
	"GetCustomerDetails":  GetCustomerDetails,
	"GetProductAnalytics": GetProductAnalytics,
}
