package category

// The three geographic categories are a closed set. Everything that
// varies per category lives in one table here so the orchestrator, the
// adapters and the API all consult the same source of truth.

const (
	Ghana  = "ghana"
	Africa = "africa"
	World  = "world"
)

// Info carries the per-category configuration consulted during
// ingestion plus the display metadata the frontend renders.
type Info struct {
	Code string
	// Label is the human-readable tab name.
	Label string
	// BadgeColor is the hex color of the category badge on cards.
	BadgeColor string
	// NewsQuery is the search expression sent to the structured news
	// provider for this category.
	NewsQuery string
	// TipPages are the pages scraped for community tips in this
	// category, relative to the scraper's base URL.
	TipPages []string
}

var table = map[string]Info{
	Ghana: {
		Code:       Ghana,
		Label:      "Ghana",
		BadgeColor: "#ce1126",
		NewsQuery:  `technology AND (Ghana OR "Ghanaian tech")`,
		TipPages:   []string{"/t/ghana", "/search?q=ghana+tech"},
	},
	Africa: {
		Code:       Africa,
		Label:      "Africa",
		BadgeColor: "#fcd116",
		NewsQuery:  "technology AND Africa NOT Ghana",
		TipPages:   []string{"/t/africa", "/search?q=africa+tech"},
	},
	World: {
		Code:       World,
		Label:      "World",
		BadgeColor: "#006b3f",
		NewsQuery:  "technology",
		TipPages:   []string{"/t/javascript/top/week", "/t/technology/top/week"},
	},
}

// order used wherever categories are iterated, so runs and responses
// are deterministic.
var all = []string{Ghana, Africa, World}

// IsValid reports whether code is one of the known categories.
func IsValid(code string) bool {
	_, ok := table[code]
	return ok
}

// All returns the category codes in their fixed order.
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}

// Get returns the configuration for a category code.
func Get(code string) (Info, bool) {
	info, ok := table[code]
	return info, ok
}
