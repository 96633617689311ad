package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkhattar/comparekart/internal/compare"
	"github.com/nkhattar/comparekart/internal/source"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

func offer(platform string, finalPrice float64, delivery domain.DeliveryEstimate) domain.PlatformOffer {
	return domain.PlatformOffer{
		Platform:   platform,
		Price:      finalPrice,
		FinalPrice: finalPrice,
		Delivery:   delivery,
	}
}

func TestAggregate_TieInclusiveTags(t *testing.T) {
	t.Parallel()

	offers := []domain.PlatformOffer{
		offer("Zomato", 300, domain.MinutesEstimate(30)),
		offer("Swiggy", 300, domain.MinutesEstimate(25)),
		offer("EatSure", 450, domain.MinutesEstimate(25)),
	}

	out, stats := compare.Aggregate(offers)
	require.Len(t, out, 3)

	assert.Equal(t, 300.0, stats.BestPrice)
	assert.Equal(t, 25.0, stats.FastestTime)
	assert.Equal(t, 150.0, stats.Savings)

	byPlatform := map[string]domain.PlatformOffer{}
	for _, o := range out {
		byPlatform[o.Platform] = o
	}

	assert.True(t, byPlatform["Zomato"].IsCheapest)
	assert.True(t, byPlatform["Swiggy"].IsCheapest)
	assert.False(t, byPlatform["EatSure"].IsCheapest)

	assert.False(t, byPlatform["Zomato"].IsFastest)
	assert.True(t, byPlatform["Swiggy"].IsFastest)
	assert.True(t, byPlatform["EatSure"].IsFastest)
}

func TestAggregate_SortsByFinalPriceStable(t *testing.T) {
	t.Parallel()

	offers := []domain.PlatformOffer{
		offer("Croma", 500, domain.LabelEstimate("Today")),
		offer("Amazon", 480, domain.LabelEstimate("Tomorrow")),
		offer("Flipkart", 480, domain.LabelEstimate("2 Days")),
	}

	out, _ := compare.Aggregate(offers)
	require.Len(t, out, 3)

	// Ascending by final price; the 480 tie keeps input order.
	assert.Equal(t, "Amazon", out[0].Platform)
	assert.Equal(t, "Flipkart", out[1].Platform)
	assert.Equal(t, "Croma", out[2].Platform)
}

func TestAggregate_LabelsNeverBeatNumericEstimates(t *testing.T) {
	t.Parallel()

	offers := []domain.PlatformOffer{
		offer("Amazon", 500, domain.LabelEstimate("Today")),
		offer("Flipkart", 600, domain.MinutesEstimate(45)),
	}

	out, stats := compare.Aggregate(offers)

	assert.Equal(t, 45.0, stats.FastestTime)
	for _, o := range out {
		if o.Platform == "Flipkart" {
			assert.True(t, o.IsFastest)
		} else {
			assert.False(t, o.IsFastest)
		}
	}
}

func TestAggregate_AllLabelsShareSentinel(t *testing.T) {
	t.Parallel()

	offers := []domain.PlatformOffer{
		offer("Amazon", 500, domain.LabelEstimate("Tomorrow")),
		offer("Flipkart", 600, domain.LabelEstimate("2 Days")),
	}

	out, stats := compare.Aggregate(offers)

	assert.Equal(t, float64(compare.SlowestSentinelMinutes), stats.FastestTime)
	for _, o := range out {
		assert.True(t, o.IsFastest)
	}
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	out, stats := compare.Aggregate(nil)

	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.Zero(t, stats.BestPrice)
	assert.Zero(t, stats.FastestTime)
	assert.Zero(t, stats.Savings)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	offers := []domain.PlatformOffer{
		offer("Zomato", 450, domain.MinutesEstimate(30)),
		offer("Swiggy", 300, domain.MinutesEstimate(25)),
	}

	_, _ = compare.Aggregate(offers)

	assert.Equal(t, "Zomato", offers[0].Platform)
	assert.False(t, offers[0].IsCheapest)
	assert.False(t, offers[1].IsCheapest)
}

func TestBuildItem(t *testing.T) {
	t.Parallel()

	raw := source.RawItem{
		ID:   "food-7",
		Term: "paneer pizza",
		Name: "Cheesy Paneer Pizza",
		Platforms: []source.RawOffer{
			{Name: "Zomato", Price: 450.0, DeliveryFee: 30.0, DeliveryTime: 30.0},
			{Name: "Swiggy", Price: "300", DeliveryTime: "25"},
		},
	}

	item := compare.BuildItem(raw, domain.CategoryFood)

	assert.Equal(t, "food-7", item.ID)
	assert.Equal(t, domain.CategoryFood, item.Category)
	require.Len(t, item.Offers, 2)
	assert.Equal(t, "Swiggy", item.Offers[0].Platform)
	assert.Equal(t, 300.0, item.BestPrice)
	assert.Equal(t, 25.0, item.FastestTime)
	assert.Equal(t, 180.0, item.Savings)
}

func TestBuildItems_PreservesOrder(t *testing.T) {
	t.Parallel()

	raws := []source.RawItem{
		{ID: "food-2", Name: "b"},
		{ID: "food-1", Name: "a"},
	}

	items := compare.BuildItems(raws, domain.CategoryFood)
	require.Len(t, items, 2)
	assert.Equal(t, "food-2", items[0].ID)
	assert.Equal(t, "food-1", items[1].ID)
}
