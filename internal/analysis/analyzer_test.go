package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppulse/internal/config"
	"shoppulse/pkg/contracts/domain"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.Default().Analysis
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
}

// phoneDataset builds a small but fully-populated dataset covering
// brands, categories, features and a multi-day time span.
func phoneDataset() []domain.Record {
	return []domain.Record{
		{Source: "shop-a", Name: "iPhone 13 128GB", Brand: "Apple", Category: "phones", Price: 999,
			CreatedAt: day(1), Features: map[string]float64{domain.FeatureStorageGB: 128}},
		{Source: "shop-a", Name: "iPhone 13 256GB", Brand: "Apple", Category: "phones", Price: 1099,
			CreatedAt: day(1), Features: map[string]float64{domain.FeatureStorageGB: 256}},
		{Source: "shop-b", Name: "Galaxy S21 128GB", Brand: "Samsung", Category: "phones", Price: 799,
			CreatedAt: day(2), Features: map[string]float64{domain.FeatureStorageGB: 128}},
		{Source: "shop-b", Name: "Galaxy A52 64GB", Brand: "Samsung", Category: "phones", Price: 349,
			CreatedAt: day(2), Features: map[string]float64{domain.FeatureStorageGB: 64}},
		{Source: "shop-b", Name: "Redmi Note 10", Brand: "Xiaomi", Category: "phones", Price: 199,
			CreatedAt: day(3)},
		{Source: "shop-a", Name: "ThinkPad X1", Brand: "Lenovo", Category: "laptops", Price: 1899,
			CreatedAt: day(3), Features: map[string]float64{domain.FeatureStorageGB: 512, domain.FeatureRAMGB: 16}},
		{Source: "shop-a", Name: "IdeaPad 3", Brand: "Lenovo", Category: "laptops", Price: 549,
			CreatedAt: day(4), Features: map[string]float64{domain.FeatureStorageGB: 256, domain.FeatureRAMGB: 8}},
		{Source: "shop-c", Name: "Generic TV 43 inch", Category: "tvs", Price: 329,
			CreatedAt: day(4), Features: map[string]float64{domain.FeatureScreenInches: 43}},
	}
}

func TestNewFailsOnEmptyDataset(t *testing.T) {
	_, err := New(nil, testAnalysisConfig(), nil)
	require.Error(t, err)

	_, err = New([]domain.Record{}, testAnalysisConfig(), nil)
	require.Error(t, err)
}

func TestNewFailsWithoutNumericPrices(t *testing.T) {
	records := []domain.Record{
		{Source: "a", Name: "x", Price: math.NaN(), Category: "tvs"},
		{Source: "a", Name: "y", Price: math.NaN(), Category: "tvs"},
	}
	_, err := New(records, testAnalysisConfig(), nil)
	require.Error(t, err)
}

func TestSingleRecordDataset(t *testing.T) {
	records := []domain.Record{{
		Source: "shop-a", Name: "iPhone 13", Brand: "Apple",
		Category: "phones", Price: 999, CreatedAt: day(1),
	}}

	a, err := New(records, testAnalysisConfig(), nil)
	require.NoError(t, err)

	// Descriptive statistics still work on one record.
	desc := a.Descriptive()
	assert.Equal(t, 1, desc.TotalRecords)
	require.NotNil(t, desc.Price)
	assert.Equal(t, 999.0, desc.Price.Mean)
	assert.Equal(t, 999.0, desc.Price.Median)
	assert.Nil(t, desc.Price.Std)
	assert.Contains(t, desc.Price.InsufficientData, "std")

	// Shape statistics are marked insufficient, not invented.
	dist := a.PriceDistribution()
	assert.Nil(t, dist.Skewness)
	assert.Nil(t, dist.Kurtosis)
	assert.Nil(t, dist.Outliers)
	assert.Contains(t, dist.InsufficientData, "skewness")
	assert.Contains(t, dist.InsufficientData, "kurtosis")
	assert.Contains(t, dist.InsufficientData, "outliers")

	// The summary never errors once the analyzer is constructed.
	summary := a.Summary()
	assert.Equal(t, 1, summary.TotalRecords)
	assert.NotNil(t, summary.TimeSeries)
}

func TestDescriptive(t *testing.T) {
	a, err := New(phoneDataset(), testAnalysisConfig(), nil)
	require.NoError(t, err)

	desc := a.Descriptive()

	assert.Equal(t, 8, desc.TotalRecords)
	assert.Equal(t, 5, desc.Categories["phones"])
	assert.Equal(t, 2, desc.Categories["laptops"])
	assert.Equal(t, 2, desc.Brands["Apple"])
	assert.Equal(t, 4, desc.Sources["shop-a"])

	require.NotNil(t, desc.DateRange)
	assert.Equal(t, day(1), desc.DateRange.Start)
	assert.Equal(t, day(4), desc.DateRange.End)
	assert.Equal(t, 3, desc.DateRange.SpanDays)

	require.NotNil(t, desc.Price)
	assert.Equal(t, 8, desc.Price.Count)
	assert.Equal(t, 199.0, desc.Price.Min)
	assert.Equal(t, 1899.0, desc.Price.Max)
	assert.NotNil(t, desc.Price.Std)

	// Per-category stats only cover that category's prices.
	phones := desc.PriceByCategory["phones"]
	require.NotNil(t, phones)
	assert.Equal(t, 5, phones.Count)
	assert.Equal(t, 199.0, phones.Min)
	assert.Equal(t, 1099.0, phones.Max)

	// Text fields: one record has no brand.
	assert.Equal(t, 1, desc.TextFields["brand"].EmptyCount)
	assert.Zero(t, desc.TextFields["name"].EmptyCount)
}

func TestDescriptiveSkipsNaNPrices(t *testing.T) {
	records := phoneDataset()
	records = append(records, domain.Record{
		Source: "shop-c", Name: "Mystery Fridge", Category: "fridges",
		Price: math.NaN(), CreatedAt: day(2),
	})

	a, err := New(records, testAnalysisConfig(), nil)
	require.NoError(t, err)

	desc := a.Descriptive()
	assert.Equal(t, 9, desc.TotalRecords)
	assert.Equal(t, 8, desc.Price.Count)
	_, hasFridges := desc.PriceByCategory["fridges"]
	assert.False(t, hasFridges)
}

func TestSummaryLookup(t *testing.T) {
	a, err := New(phoneDataset(), testAnalysisConfig(), nil)
	require.NoError(t, err)

	summary := a.Summary()
	assert.NotEmpty(t, summary.ID)

	for _, name := range Names() {
		section, ok := summary.Analysis(name)
		assert.True(t, ok, name)
		assert.NotNil(t, section, name)
	}

	_, ok := summary.Analysis("sentiment")
	assert.False(t, ok)
}
