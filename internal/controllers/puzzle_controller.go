package controllers

import (
	"fmt"
	"net/http"

	"jumptimer/internal/models"
	"jumptimer/internal/providers"
	"jumptimer/internal/services"
)

type PuzzleController struct {
	logger  providers.Logger
	puzzles services.PuzzleServiceInterface
	cache   providers.CacheProviderInterface
}

type puzzleRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required|maxLen:200"`
	Description string `json:"description" validate:"maxLen:2000"`
	Creator     string `json:"creator" validate:"maxLen:200"`
	World       string `json:"world" validate:"maxLen:100"`
}

func NewPuzzleController(logger providers.Logger, puzzles services.PuzzleServiceInterface, cache providers.CacheProviderInterface) *PuzzleController {
	return &PuzzleController{
		logger:  logger,
		puzzles: puzzles,
		cache:   cache,
	}
}

func (pc *PuzzleController) List(w http.ResponseWriter, r *http.Request) {
	key := fmt.Sprintf("puzzles:%d", pc.puzzles.Revision())
	serveFromCacheOrCompute(pc.cache, w, key, func() (any, error) {
		return pc.puzzles.ListAll(), nil
	})
}

func (pc *PuzzleController) Create(w http.ResponseWriter, r *http.Request) {
	var payload puzzleRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	p, err := pc.puzzles.Create(payload.Name, payload.Description, payload.Creator, payload.World)
	if err != nil {
		writeError(w, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (pc *PuzzleController) Update(w http.ResponseWriter, r *http.Request) {
	var payload puzzleRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	if payload.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	p, err := pc.puzzles.Update(models.CustomPuzzle{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Creator:     payload.Creator,
		World:       payload.World,
	})
	if err != nil {
		writeError(w, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete drops the puzzle from the registry. Templates and records keep
// their copy of its identity.
func (pc *PuzzleController) Delete(w http.ResponseWriter, r *http.Request) {
	var payload idRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	if err := pc.puzzles.Remove(payload.ID); err != nil {
		writeError(w, pc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
