package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
)

// Filters captures the browse query parameters. Price bounds apply to the
// discounted (final) price, matching what buyers see.
type Filters struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Sort     enums.SortKey
}

// ApplyFilters returns the games matching the filters, ordered by the sort
// key. The input slice is never mutated; sorting is stable.
func ApplyFilters(games []models.Game, filters Filters) []models.Game {
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	category := strings.ToLower(strings.TrimSpace(filters.Category))

	matched := make([]models.Game, 0, len(games))
	for _, game := range games {
		if search != "" && !strings.Contains(strings.ToLower(game.Title), search) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(game.Category), category) {
			continue
		}
		if !withinPrice(game.FinalPrice(), filters.MinPrice, filters.MaxPrice) {
			continue
		}
		matched = append(matched, game)
	}

	sortGames(matched, filters.Sort)
	return matched
}

// Categories derives the facet list from comma-joined category tags:
// split, trim, dedupe, alphabetical.
func Categories(games []models.Game) []string {
	seen := map[string]struct{}{}
	var result []string
	for _, game := range games {
		for _, tag := range strings.Split(game.Category, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			result = append(result, tag)
		}
	}
	sort.Strings(result)
	return result
}

func withinPrice(price decimal.Decimal, min, max *float64) bool {
	if min != nil && price.LessThan(decimal.NewFromFloat(*min)) {
		return false
	}
	if max != nil && price.GreaterThan(decimal.NewFromFloat(*max)) {
		return false
	}
	return true
}

func sortGames(games []models.Game, key enums.SortKey) {
	switch key {
	case enums.SortTitleDesc:
		sort.SliceStable(games, func(i, j int) bool {
			return strings.ToLower(games[i].Title) > strings.ToLower(games[j].Title)
		})
	case enums.SortPriceAsc:
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].FinalPrice().LessThan(games[j].FinalPrice())
		})
	case enums.SortPriceDesc:
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].FinalPrice().GreaterThan(games[j].FinalPrice())
		})
	default:
		sort.SliceStable(games, func(i, j int) bool {
			return strings.ToLower(games[i].Title) < strings.ToLower(games[j].Title)
		})
	}
}
