package catalog

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
)

func sampleGames() []models.Game {
	return []models.Game{
		{ID: 1, Title: "Zelda Clone", Price: decimal.NewFromInt(60), Category: "Adventure, RPG"},
		{ID: 2, Title: "Apex Racer", Price: decimal.NewFromInt(40), Discount: 50, Category: "Racing"},
		{ID: 3, Title: "Mystery Manor", Price: decimal.NewFromInt(25), Category: "Adventure, Puzzle"},
		{ID: 4, Title: "apex legends clone", Price: decimal.NewFromInt(10), Category: "Shooter"},
	}
}

func titles(games []models.Game) []string {
	out := make([]string, 0, len(games))
	for _, game := range games {
		out = append(out, game.Title)
	}
	return out
}

func TestApplyFiltersDefaultSortIsTitleAscending(t *testing.T) {
	t.Parallel()

	got := titles(ApplyFilters(sampleGames(), Filters{}))
	want := []string{"Apex Racer", "apex legends clone", "Mystery Manor", "Zelda Clone"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("default sort: got %v, want %v", got, want)
	}
}

func TestApplyFiltersSearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := titles(ApplyFilters(sampleGames(), Filters{Search: "APEX"}))
	want := []string{"Apex Racer", "apex legends clone"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("search: got %v, want %v", got, want)
	}
}

func TestApplyFiltersCategoryMatchesSubstring(t *testing.T) {
	t.Parallel()

	got := titles(ApplyFilters(sampleGames(), Filters{Category: "adventure"}))
	want := []string{"Mystery Manor", "Zelda Clone"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("category: got %v, want %v", got, want)
	}
}

func TestApplyFiltersPriceBoundsUseFinalPrice(t *testing.T) {
	t.Parallel()

	// Apex Racer is 40 with a 50% discount, so its effective price is 20.
	min, max := 15.0, 30.0
	got := titles(ApplyFilters(sampleGames(), Filters{MinPrice: &min, MaxPrice: &max}))
	want := []string{"Apex Racer", "Mystery Manor"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("price bounds: got %v, want %v", got, want)
	}
}

func TestApplyFiltersPriceSort(t *testing.T) {
	t.Parallel()

	asc := titles(ApplyFilters(sampleGames(), Filters{Sort: enums.SortPriceAsc}))
	wantAsc := []string{"apex legends clone", "Apex Racer", "Mystery Manor", "Zelda Clone"}
	if !reflect.DeepEqual(asc, wantAsc) {
		t.Fatalf("price asc: got %v, want %v", asc, wantAsc)
	}

	desc := titles(ApplyFilters(sampleGames(), Filters{Sort: enums.SortPriceDesc}))
	wantDesc := []string{"Zelda Clone", "Mystery Manor", "Apex Racer", "apex legends clone"}
	if !reflect.DeepEqual(desc, wantDesc) {
		t.Fatalf("price desc: got %v, want %v", desc, wantDesc)
	}
}

func TestFilterThenSortMatchesSortThenFilter(t *testing.T) {
	t.Parallel()

	filters := Filters{Category: "adventure", Sort: enums.SortPriceDesc}

	filteredFirst := titles(ApplyFilters(sampleGames(), filters))

	sorted := ApplyFilters(sampleGames(), Filters{Sort: enums.SortPriceDesc})
	sortedFirst := titles(ApplyFilters(sorted, Filters{Category: "adventure", Sort: enums.SortPriceDesc}))

	if !reflect.DeepEqual(filteredFirst, sortedFirst) {
		t.Fatalf("commutation broken: %v vs %v", filteredFirst, sortedFirst)
	}
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	games := sampleGames()
	ApplyFilters(games, Filters{Sort: enums.SortPriceDesc})
	if games[0].Title != "Zelda Clone" {
		t.Fatalf("input slice reordered: %v", titles(games))
	}
}

func TestCategoriesSplitsTrimsAndDedupes(t *testing.T) {
	t.Parallel()

	got := Categories(sampleGames())
	want := []string{"Adventure", "Puzzle", "RPG", "Racing", "Shooter"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories: got %v, want %v", got, want)
	}
}

func TestCategoriesIgnoresEmptyTags(t *testing.T) {
	t.Parallel()

	games := []models.Game{{Category: " , Indie, "}, {Category: ""}}
	got := Categories(games)
	want := []string{"Indie"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories: got %v, want %v", got, want)
	}
}
