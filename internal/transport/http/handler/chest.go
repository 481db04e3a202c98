package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"alphachest/internal/domain"
	"alphachest/internal/service"
	"alphachest/internal/transport/http/response"
	"alphachest/pkg/apierror"
)

// ChestHandler handles chest and player HTTP requests.
type ChestHandler struct {
	chestService *service.ChestService
}

// NewChestHandler creates a new chest handler.
func NewChestHandler(chestService *service.ChestService) *ChestHandler {
	return &ChestHandler{
		chestService: chestService,
	}
}

// ChestResponse is the JSON view of one chest.
type ChestResponse struct {
	Key   string              `json:"key"`
	Size  int                 `json:"size"`
	Items map[int]domain.Item `json:"items"`
}

// GetChest handles GET /api/v1/chests/{identity}
// Opens the chest, creating an empty one if the player has none.
func (h *ChestHandler) GetChest(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityParam(w, r)
	if !ok {
		return
	}

	key, inv := h.chestService.Open(r.Context(), identity)
	response.OK(w, ChestResponse{
		Key:   key,
		Size:  inv.Size(),
		Items: inv.Occupied(),
	})
}

// SetSlot handles PUT /api/v1/chests/{identity}/slots/{slot}
// An item with amount 0 empties the slot.
func (h *ChestHandler) SetSlot(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityParam(w, r)
	if !ok {
		return
	}

	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		response.Error(w, apierror.BadRequest("slot must be a number"))
		return
	}

	var item domain.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if item.Amount > 0 && item.Type == "" {
		response.Error(w, apierror.BadRequest("type is required"))
		return
	}

	if err := h.chestService.SetSlot(r.Context(), identity, slot, &item); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"status": "updated",
		"slot":   slot,
	})
}

// ClearChest handles DELETE /api/v1/chests/{identity}
// The chest file is removed on the next save.
func (h *ChestHandler) ClearChest(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityParam(w, r)
	if !ok {
		return
	}

	key := h.chestService.Clear(r.Context(), identity)
	response.OK(w, map[string]string{
		"status": "cleared",
		"key":    key,
	})
}

// SaveChests handles POST /api/v1/chests/save
func (h *ChestHandler) SaveChests(w http.ResponseWriter, r *http.Request) {
	saved := h.chestService.SaveAll()
	response.OK(w, map[string]int{"saved": saved})
}

// CountChests handles GET /api/v1/chests
func (h *ChestHandler) CountChests(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]int{"count": h.chestService.Count()})
}

// PlayerRequest is the body of POST /api/v1/players.
type PlayerRequest struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// RecordPlayer handles POST /api/v1/players
// Called by the host when a player joins so name lookups resolve to the UUID.
func (h *ChestHandler) RecordPlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	id, err := uuid.Parse(req.UUID)
	if err != nil {
		response.Error(w, apierror.BadRequest("uuid is invalid"))
		return
	}
	if !playerName.MatchString(req.Name) {
		response.Error(w, apierror.BadRequest("name is invalid"))
		return
	}

	p := domain.Player{ID: id, Name: req.Name, LastSeen: time.Now().UTC()}
	if err := h.chestService.RecordPlayer(r.Context(), p); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, p)
}

// DeathRequest is the body of POST /api/v1/players/{uuid}/death.
type DeathRequest struct {
	Permissions []string `json:"permissions"`
}

// HandleDeath handles POST /api/v1/players/{uuid}/death
// Applies the death policy and returns the items to drop.
func (h *ChestHandler) HandleDeath(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		response.Error(w, apierror.BadRequest("uuid is invalid"))
		return
	}

	// An empty body means no permissions.
	var req DeathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	response.OK(w, h.chestService.HandleDeath(r.Context(), id, req.Permissions))
}

func identityParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity := chi.URLParam(r, "identity")
	if !validIdentity(identity) {
		response.Error(w, domain.ErrInvalidIdentity)
		return "", false
	}
	return identity, true
}
