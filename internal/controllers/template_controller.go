package controllers

import (
	"fmt"
	"net/http"

	"jumptimer/internal/models"
	"jumptimer/internal/providers"
	"jumptimer/internal/services"
	"jumptimer/internal/speedrun"
)

type TemplateController struct {
	logger    providers.Logger
	templates services.TemplateServiceInterface
	records   services.RecordServiceInterface
	cache     providers.CacheProviderInterface
	clock     speedrun.Clock
}

type createTemplateRequest struct {
	Name        string        `json:"name" validate:"required|maxLen:200"`
	Puzzle      puzzlePayload `json:"puzzle"`
	Checkpoints []string      `json:"checkpoints"`
}

// updateTemplateRequest replaces the checkpoint list when Checkpoints is
// present; a nil list keeps the stored one.
type updateTemplateRequest struct {
	ID          string         `json:"id" validate:"required"`
	Name        string         `json:"name" validate:"required|maxLen:200"`
	Puzzle      *puzzlePayload `json:"puzzle"`
	Checkpoints []string       `json:"checkpoints"`
}

type fromRecordRequest struct {
	RecordID string `json:"recordId" validate:"required"`
	Name     string `json:"name" validate:"maxLen:200"`
}

func NewTemplateController(logger providers.Logger, templates services.TemplateServiceInterface, records services.RecordServiceInterface, cache providers.CacheProviderInterface, clock speedrun.Clock) *TemplateController {
	return &TemplateController{
		logger:    logger,
		templates: templates,
		records:   records,
		cache:     cache,
		clock:     clock,
	}
}

// List returns every template, or with a kind query the ones applicable to
// that puzzle.
func (tc *TemplateController) List(w http.ResponseWriter, r *http.Request) {
	identity, filtered, err := identityFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := fmt.Sprintf("templates:%d:%s", tc.templates.Revision(), r.URL.RawQuery)
	serveFromCacheOrCompute(tc.cache, w, key, func() (any, error) {
		if filtered {
			return tc.templates.FindApplicable(identity), nil
		}
		return tc.templates.ListAll(), nil
	})
}

func (tc *TemplateController) Create(w http.ResponseWriter, r *http.Request) {
	var payload createTemplateRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	tpl, err := tc.templates.Create(payload.Name, payload.Puzzle.identity())
	if err != nil {
		writeError(w, tc.logger, err)
		return
	}
	if len(payload.Checkpoints) > 0 {
		tc.setCheckpoints(&tpl, payload.Checkpoints)
		if tpl, err = tc.templates.Update(tpl); err != nil {
			writeError(w, tc.logger, err)
			return
		}
	}
	tc.logger.Infof(providers.TypeApp, "Template %s created for %s", tpl.ID, tpl.Puzzle.Ref)
	writeJSON(w, http.StatusCreated, tpl)
}

func (tc *TemplateController) Update(w http.ResponseWriter, r *http.Request) {
	var payload updateTemplateRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	tpl, ok := tc.templates.Get(payload.ID)
	if !ok {
		writeError(w, tc.logger, services.ErrTemplateNotFound)
		return
	}
	tpl.Name = payload.Name
	if payload.Puzzle != nil {
		tpl.Puzzle = payload.Puzzle.identity()
	}
	if payload.Checkpoints != nil {
		tc.setCheckpoints(&tpl, payload.Checkpoints)
	}
	updated, err := tc.templates.Update(tpl)
	if err != nil {
		writeError(w, tc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (tc *TemplateController) Duplicate(w http.ResponseWriter, r *http.Request) {
	var payload idRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	dup, err := tc.templates.Duplicate(payload.ID)
	if err != nil {
		writeError(w, tc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

func (tc *TemplateController) Delete(w http.ResponseWriter, r *http.Request) {
	var payload idRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	if err := tc.templates.Remove(payload.ID); err != nil {
		writeError(w, tc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FromRecord builds a template from a finished run and stores it.
func (tc *TemplateController) FromRecord(w http.ResponseWriter, r *http.Request) {
	var payload fromRecordRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	rec, ok := tc.records.Get(payload.RecordID)
	if !ok {
		writeError(w, tc.logger, services.ErrRecordNotFound)
		return
	}
	tpl, err := tc.templates.Add(tc.records.CreateTemplateFrom(rec, payload.Name))
	if err != nil {
		writeError(w, tc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (tc *TemplateController) setCheckpoints(tpl *models.Template, names []string) {
	now := tc.clock.Now()
	tpl.Checkpoints = []models.Checkpoint{}
	for _, name := range names {
		tpl.AddCheckpoint(name, now)
	}
}
