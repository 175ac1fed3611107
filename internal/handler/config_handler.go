package handler

import (
	"errors"
	"net/http"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
	"github.com/2021-nbs/zealthy-exercise/internal/service"
)

type ConfigHandler struct {
	svc *service.ConfigService
}

func NewConfigHandler(svc *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Get())
}

func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var candidate models.FieldConfig
	if err := readJSON(r, &candidate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := h.svc.Update(candidate); err != nil {
		if errors.Is(err, models.ErrConfigurationInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Configuration updated successfully",
	})
}
