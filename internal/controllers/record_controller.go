package controllers

import (
	"fmt"
	"net/http"

	"jumptimer/internal/models"
	"jumptimer/internal/providers"
	"jumptimer/internal/services"
)

type RecordController struct {
	logger  providers.Logger
	records services.RecordServiceInterface
	cache   providers.CacheProviderInterface
}

func NewRecordController(logger providers.Logger, records services.RecordServiceInterface, cache providers.CacheProviderInterface) *RecordController {
	return &RecordController{
		logger:  logger,
		records: records,
		cache:   cache,
	}
}

func parseSort(r *http.Request) (models.RecordSort, bool) {
	switch s := models.RecordSort(r.URL.Query().Get("sort")); s {
	case "":
		return models.SortByDate, true
	case models.SortByDate, models.SortByDuration, models.SortByPuzzle:
		return s, true
	default:
		return "", false
	}
}

// List returns records sorted by ?sort=date|duration|puzzle, optionally
// narrowed to one puzzle.
func (rc *RecordController) List(w http.ResponseWriter, r *http.Request) {
	by, ok := parseSort(r)
	if !ok {
		http.Error(w, "sort must be date, duration or puzzle", http.StatusBadRequest)
		return
	}
	identity, filtered, err := identityFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := fmt.Sprintf("records:%d:%s", rc.records.Revision(), r.URL.RawQuery)
	serveFromCacheOrCompute(rc.cache, w, key, func() (any, error) {
		var list []models.Record
		if filtered {
			list = rc.records.ListFor(identity)
		} else {
			list = rc.records.ListAll()
		}
		models.SortRecords(list, by)
		return list, nil
	})
}

func (rc *RecordController) Best(w http.ResponseWriter, r *http.Request) {
	identity, filtered, err := identityFromQuery(r)
	if err != nil || !filtered {
		http.Error(w, "a puzzle kind is required", http.StatusBadRequest)
		return
	}
	best, ok := rc.records.PersonalBest(identity)
	if !ok {
		writeError(w, rc.logger, services.ErrRecordNotFound)
		return
	}
	writeJSON(w, http.StatusOK, best)
}

func (rc *RecordController) Delete(w http.ResponseWriter, r *http.Request) {
	var payload idRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	if err := rc.records.Remove(payload.ID); err != nil {
		writeError(w, rc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
