package source

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	domain "github.com/nkhattar/comparekart/pkg/types"
)

// Catalog item counts per category.
const (
	catalogFoodCount = 120
	catalogShopCount = 150
	catalogRideCount = 50
)

var (
	foodPrefixes = []string{"Spicy", "Cheesy", "Grilled", "Crispy", "Classic", "Maharaja", "Veg", "Chicken", "Paneer", "Egg", "Hyderabadi", "Mexican"}
	foodItems    = []string{"Burger", "Pizza", "Biryani", "Pasta", "Dosa", "Sandwich", "Tacos", "Sushi", "Salad", "Roll", "Noodles", "Thali", "Momos", "Kebab"}
	foodSuffixes = []string{"Supreme", "Delight", "Special", "Combo", "XL", "Bowl", "Platter", "Wrap", "Box", "Meal"}

	shopBrands = []string{
		"Nike", "Adidas", "Puma", "New Balance", "Asics",
		"Apple", "Samsung", "Google", "OnePlus", "Xiaomi", "Nothing",
		"Sony", "Bose", "JBL", "Marshall",
		"Dell", "HP", "Lenovo", "MacBook", "Asus",
		"Zara", "H&M", "Levis", "Uniqlo", "Gucci", "Prada",
	}
	shopItems = []string{
		"Air Jordan", "Yeezy", "UltraBoost", "Air Max", "Running Shoes", "Sneakers",
		"iPhone 15", "iPhone 14", "Galaxy S24", "Pixel 8", "Phone (2)", "Redmi Note",
		"WH-1000XM5", "QuietComfort", "AirPods Pro", "Earbuds", "Headphones",
		"Air M2", "Pro 14", "XPS 13", "Spectre", "Legion", "Laptop",
		"T-Shirt", "Jeans", "Jacket", "Hoodie", "Dress", "Bag", "Watch",
	}
	shopVariants = []string{"Pro", "Ultra", "Max", "Lite", "Plus", "SE", "Limited Edition", "Black", "White", "Blue", "Red"}

	rideDestinations = []string{"Airport (T1)", "Airport (T2)", "Mall of India", "Select Citywalk", "Cyber Hub", "Tech Park", "Railway Station", "Hospital", "Home", "Office"}
	rideTypes        = []string{"Uber Go", "Uber Premier", "Ola Mini", "Ola Prime", "BluSmart", "Rapido Bike", "Auto Rickshaw"}
)

// Catalog is a synthetic offer catalog generated from an explicit seed.
// The same seed always yields the same items, so tests and local runs are
// reproducible; there is no package-level catalog state.
type Catalog struct {
	items   map[domain.Category][]RawItem
	latency time.Duration
}

// CatalogOption configures the Catalog.
type CatalogOption func(*Catalog)

// WithLatency adds an artificial delay to every Search, approximating a
// real provider round trip in local development. Search still honors
// context cancellation during the delay.
func WithLatency(d time.Duration) CatalogOption {
	return func(c *Catalog) {
		c.latency = d
	}
}

// NewCatalog generates a full synthetic catalog from seed.
func NewCatalog(seed int64, opts ...CatalogOption) *Catalog {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic synthetic data, not crypto
	c := &Catalog{
		items: map[domain.Category][]RawItem{
			domain.CategoryFood: generateFood(rng, catalogFoodCount),
			domain.CategoryShop: generateShop(rng, catalogShopCount),
			domain.CategoryRide: generateRide(rng, catalogRideCount),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search filters the category's items by the query term. Matching is
// token-AND: every whitespace-separated token of the term (punctuation
// stripped) must appear somewhere in the item's name or term. No matches
// is a normal empty result, never an error.
func (c *Catalog) Search(ctx context.Context, q Query) ([]RawItem, error) {
	if c.latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.latency):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := tokenize(q.Term)
	if len(tokens) == 0 {
		return []RawItem{}, nil
	}

	matched := []RawItem{}
	for _, item := range c.items[q.Category] {
		haystack := strings.ToLower(item.Name + " " + item.Term)
		if containsAll(haystack, tokens) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Size returns the number of catalog items for a category.
func (c *Catalog) Size(cat domain.Category) int {
	return len(c.items[cat])
}

func tokenize(term string) []string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ' ', r == '\t':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(term))
	return strings.Fields(clean)
}

func containsAll(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func generateFood(rng *rand.Rand, count int) []RawItem {
	items := make([]RawItem, 0, count)
	for i := range count {
		item := pick(rng, foodItems)
		name := pick(rng, foodPrefixes) + " " + item + " " + pick(rng, foodSuffixes)
		items = append(items, RawItem{
			ID:    fmt.Sprintf("food-%d", i),
			Term:  strings.ToLower(item),
			Name:  name,
			Image: "https://source.unsplash.com/200x200/?" + strings.ToLower(item) + ",food",
			Platforms: []RawOffer{
				foodOffer(rng, "Zomato"),
				foodOffer(rng, "Swiggy"),
			},
		})
	}
	return items
}

// foodOffer deliberately leaves fee/tax/discount fields absent and encodes
// the rating as a string, matching how loosely shaped provider payloads
// arrive in practice.
func foodOffer(rng *rand.Rand, platform string) RawOffer {
	return RawOffer{
		Name:         platform,
		Price:        100 + rng.Intn(400),
		DeliveryTime: 20 + rng.Intn(40),
		Rating:       strconv.FormatFloat(3.5+rng.Float64()*1.5, 'f', 1, 64),
	}
}

func generateShop(rng *rand.Rand, count int) []RawItem {
	items := make([]RawItem, 0, count)
	for i := range count {
		brand := pick(rng, shopBrands)
		item := pick(rng, shopItems)
		name := brand + " " + item + " " + pick(rng, shopVariants)
		firstWord, _, _ := strings.Cut(item, " ")
		items = append(items, RawItem{
			ID:    fmt.Sprintf("shop-%d", i),
			Term:  strings.ToLower(brand + " " + item),
			Name:  name,
			Image: "https://source.unsplash.com/200x200/?" + strings.ToLower(firstWord) + ",product",
			Platforms: []RawOffer{
				{Name: "Amazon", Price: 1000 + rng.Intn(90000), DeliveryTime: "Tomorrow"},
				{Name: "Flipkart", Price: 1000 + rng.Intn(90000), DeliveryTime: "2 Days"},
				{Name: "Croma", Price: 1000 + rng.Intn(95000), DeliveryTime: "Today"},
			},
		})
	}
	return items
}

func generateRide(rng *rand.Rand, count int) []RawItem {
	items := make([]RawItem, 0, count)
	for i := range count {
		dest := pick(rng, rideDestinations)
		items = append(items, RawItem{
			ID:    fmt.Sprintf("ride-%d", i),
			Term:  strings.ToLower(dest + " " + pick(rng, rideTypes)),
			Name:  "Ride to " + dest,
			Image: "https://source.unsplash.com/200x200/?car,traffic",
			Platforms: []RawOffer{
				{Name: "Uber", Price: 100 + rng.Intn(1000), DeliveryTime: rng.Intn(15)},
				{Name: "Ola", Price: 100 + rng.Intn(1000), DeliveryTime: rng.Intn(15)},
				{Name: "InDrive", Price: 80 + rng.Intn(900), DeliveryTime: rng.Intn(20)},
			},
		})
	}
	return items
}
