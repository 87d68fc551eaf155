package analysis

import (
	"math"
	"sort"
	"strings"
)

// BrandStats summarizes one brand's presence in the dataset.
type BrandStats struct {
	Brand        string  `json:"brand"`
	Count        int     `json:"count"`
	MarketShare  float64 `json:"market_share"` // percent of branded records
	AveragePrice float64 `json:"average_price"`
	PriceRank    int     `json:"price_rank"` // 1 = most expensive on average
}

// BrandAnalysis is the result of the brand analysis.
type BrandAnalysis struct {
	TotalBranded  int           `json:"total_branded"`
	UnbrandedCount int          `json:"unbranded_count"`
	Brands        []*BrandStats `json:"brands"` // descending by count
	PremiumBrands []string      `json:"premium_brands,omitempty"`
	BudgetBrands  []string      `json:"budget_brands,omitempty"`

	InsufficientData []string `json:"insufficient_data,omitempty"`
}

// Brand groups records by case-normalized brand and reports counts,
// market share, average prices and price ranking. Premium and budget
// positioning compares each brand's average price to the overall median.
func (a *Analyzer) Brand() *BrandAnalysis {
	type group struct {
		display string
		prices  []float64
		count   int
	}
	groups := make(map[string]*group)
	out := &BrandAnalysis{}

	for i := range a.records {
		rec := &a.records[i]
		if rec.Brand == "" {
			out.UnbrandedCount++
			continue
		}
		key := strings.ToLower(rec.Brand)
		g, ok := groups[key]
		if !ok {
			g = &group{display: rec.Brand}
			groups[key] = g
		}
		g.count++
		if !math.IsNaN(rec.Price) {
			g.prices = append(g.prices, rec.Price)
		}
		out.TotalBranded++
	}

	if len(groups) == 0 {
		out.InsufficientData = append(out.InsufficientData, "brands")
		return out
	}

	for _, g := range groups {
		bs := &BrandStats{
			Brand:       g.display,
			Count:       g.count,
			MarketShare: round2(float64(g.count) / float64(out.TotalBranded) * 100),
		}
		if len(g.prices) > 0 {
			bs.AveragePrice = round2(mean(g.prices))
		}
		out.Brands = append(out.Brands, bs)
	}

	// Price ranks: 1 = highest average price.
	byPrice := make([]*BrandStats, len(out.Brands))
	copy(byPrice, out.Brands)
	sort.SliceStable(byPrice, func(i, j int) bool {
		if byPrice[i].AveragePrice != byPrice[j].AveragePrice {
			return byPrice[i].AveragePrice > byPrice[j].AveragePrice
		}
		return byPrice[i].Brand < byPrice[j].Brand
	})
	for rank, bs := range byPrice {
		bs.PriceRank = rank + 1
	}

	sort.SliceStable(out.Brands, func(i, j int) bool {
		if out.Brands[i].Count != out.Brands[j].Count {
			return out.Brands[i].Count > out.Brands[j].Count
		}
		return out.Brands[i].Brand < out.Brands[j].Brand
	})

	overallMedian := quantile(a.prices, 0.5)
	if overallMedian > 0 {
		for _, bs := range byPrice {
			switch {
			case bs.AveragePrice > overallMedian*1.5:
				out.PremiumBrands = append(out.PremiumBrands, bs.Brand)
			case bs.AveragePrice > 0 && bs.AveragePrice < overallMedian*0.7:
				out.BudgetBrands = append(out.BudgetBrands, bs.Brand)
			}
		}
	}

	return out
}

// CategoryStats summarizes one category.
type CategoryStats struct {
	Category string      `json:"category"`
	Count    int         `json:"count"`
	Share    float64     `json:"share"` // percent of all records
	Price    *PriceStats `json:"price,omitempty"`
}

// CategoryAnalysis is the result of the category analysis.
type CategoryAnalysis struct {
	Categories []*CategoryStats `json:"categories"` // descending by count
}

// Category reports per-category counts, relative share and price
// statistics.
func (a *Analyzer) Category() *CategoryAnalysis {
	counts := make(map[string]int)
	prices := make(map[string][]float64)
	for i := range a.records {
		rec := &a.records[i]
		counts[rec.Category]++
		if !math.IsNaN(rec.Price) {
			prices[rec.Category] = append(prices[rec.Category], rec.Price)
		}
	}

	out := &CategoryAnalysis{}
	for cat, count := range counts {
		cs := &CategoryStats{
			Category: cat,
			Count:    count,
			Share:    round2(float64(count) / float64(len(a.records)) * 100),
		}
		if p := prices[cat]; len(p) > 0 {
			cs.Price = priceStats(p)
		}
		out.Categories = append(out.Categories, cs)
	}

	sort.SliceStable(out.Categories, func(i, j int) bool {
		if out.Categories[i].Count != out.Categories[j].Count {
			return out.Categories[i].Count > out.Categories[j].Count
		}
		return out.Categories[i].Category < out.Categories[j].Category
	})

	return out
}
