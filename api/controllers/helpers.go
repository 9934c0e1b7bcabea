package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pixelkeys/pixelkeys-backend/api/validators"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/pagination"
)

func parseIDParam(r *http.Request, name string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]any{"field": name})
	}
	return uint(id), nil
}

func parsePaginationParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return params, err
	}
	params.Limit = limit
	return params, nil
}
