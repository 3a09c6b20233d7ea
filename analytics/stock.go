package analytics

// AnalyzeStockLevels iterates every (product, variant) pair once, totaling
// quantity and inventory value and classifying each variant into exactly
// one distribution bucket. Out-of-stock and low-stock variants are listed
// in encounter order (products outer, variants inner); no sorting is
// applied.
func AnalyzeStockLevels(products []Product) StockInsights {
	insights := StockInsights{
		LowStockItems:     []LowStockItem{},
		OutOfStockItems:   []OutOfStockItem{},
		StockDistribution: map[string]int{},
	}

	for _, product := range products {
		for _, variant := range product.Variants {
			stock := variant.Stock
			price := float64(variant.Price)

			insights.TotalItems += stock
			insights.TotalValue += float64(stock) * price

			switch {
			case stock == 0:
				insights.OutOfStockItems = append(insights.OutOfStockItems, OutOfStockItem{
					ProductName: product.Name,
					VariantName: variant.Name,
					SKU:         variant.SKU,
				})
				insights.StockDistribution[BucketOutOfStock]++

			case stock < lowStockThreshold:
				insights.LowStockItems = append(insights.LowStockItems, LowStockItem{
					ProductName: product.Name,
					VariantName: variant.Name,
					SKU:         variant.SKU,
					Stock:       stock,
				})
				insights.StockDistribution[BucketLowStock]++

			case stock < mediumStockThreshold:
				insights.StockDistribution[BucketMediumStock]++

			default:
				insights.StockDistribution[BucketHighStock]++
			}
		}
	}

	return insights
}
