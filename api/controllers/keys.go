package controllers

import (
	"net/http"

	"github.com/pixelkeys/pixelkeys-backend/api/responses"
	"github.com/pixelkeys/pixelkeys-backend/api/validators"
	"github.com/pixelkeys/pixelkeys-backend/internal/keys"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
)

type createKeysRequest struct {
	GameID uint     `json:"game_id" validate:"required"`
	Keys   []string `json:"keys" validate:"required,min=1"`
}

// KeysList returns the full license key inventory.
func KeysList(svc keys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventory, err := svc.ListKeys(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory)
	}
}

// KeysCreate uploads a batch of keys for one game.
func KeysCreate(svc keys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createKeysRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateKeys(r.Context(), keys.CreateKeysInput{
			GameID: req.GameID,
			Keys:   req.Keys,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// KeyDelete removes one unassigned key from the inventory.
func KeyDelete(svc keys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteKey(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
