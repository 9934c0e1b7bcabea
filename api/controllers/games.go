package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pixelkeys/pixelkeys-backend/api/responses"
	"github.com/pixelkeys/pixelkeys-backend/api/validators"
	"github.com/pixelkeys/pixelkeys-backend/internal/catalog"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
)

type createGameRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"min=0"`
	Discount    int      `json:"discount" validate:"min=0,max=100"`
	Inventory   int      `json:"inventory" validate:"min=0"`
	Category    string   `json:"category"`
	CoverImage  string   `json:"cover_image"`
	Screenshots []string `json:"screenshots"`
	Platform    []string `json:"platform"`
}

type updateGameRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Discount    *int      `json:"discount"`
	Inventory   *int      `json:"inventory"`
	Category    *string   `json:"category"`
	CoverImage  *string   `json:"cover_image"`
	Screenshots *[]string `json:"screenshots"`
	Platform    *[]string `json:"platform"`
}

type updateGameStatusRequest struct {
	Status int `json:"status" validate:"min=0,max=1"`
}

// GamesListActive returns the buyer-facing listing with filters and facets.
func GamesListActive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseCatalogFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListActive(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GameByID returns one active game's detail view.
func GameByID(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		game, err := svc.GetGame(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, game)
	}
}

// GamesListAll returns the full catalog including blocked games.
func GamesListAll(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, games)
	}
}

// GameCreate adds a new catalog entry.
func GameCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		game, err := svc.CreateGame(r.Context(), catalog.CreateGameInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Discount:    req.Discount,
			Inventory:   req.Inventory,
			Category:    req.Category,
			CoverImage:  req.CoverImage,
			Screenshots: req.Screenshots,
			Platform:    req.Platform,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, game)
	}
}

// GameUpdate applies a partial update to an existing game.
func GameUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateGameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		game, err := svc.UpdateGame(r.Context(), id, catalog.UpdateGameInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Discount:    req.Discount,
			Inventory:   req.Inventory,
			Category:    req.Category,
			CoverImage:  req.CoverImage,
			Screenshots: req.Screenshots,
			Platform:    req.Platform,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, game)
	}
}

// GameDelete removes a game from the catalog.
func GameDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteGame(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GameUpdateStatus flips a game between active and blocked.
func GameUpdateStatus(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateGameStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		game, err := svc.UpdateStatus(r.Context(), id, enums.GameStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, game)
	}
}

func parseCatalogFilters(r *http.Request) (catalog.Filters, error) {
	q := r.URL.Query()
	filters := catalog.Filters{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
	}

	sort, err := enums.ParseSortKey(strings.TrimSpace(q.Get("sort")))
	if err != nil {
		return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort key")
	}
	filters.Sort = sort

	if raw := strings.TrimSpace(q.Get("min_price")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "min_price must be a non-negative number")
		}
		filters.MinPrice = &value
	}
	if raw := strings.TrimSpace(q.Get("max_price")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "max_price must be a non-negative number")
		}
		filters.MaxPrice = &value
	}
	return filters, nil
}
