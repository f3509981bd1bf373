package controllers

import (
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"

	"jumptimer/internal/models"
	"jumptimer/internal/providers"
	"jumptimer/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// puzzlePayload is the wire form of a puzzle identity. An empty kind is a
// generic slot.
type puzzlePayload struct {
	Kind      string `json:"kind"`
	CatalogID uint32 `json:"catalogId"`
	CustomID  string `json:"customId"`
	Name      string `json:"name"`
	World     string `json:"world"`
}

func (p puzzlePayload) identity() models.PuzzleIdentity {
	kind := models.PuzzleKind(p.Kind)
	if p.Kind == "generic" {
		kind = models.PuzzleGeneric
	}
	return models.PuzzleIdentity{
		Ref:   models.PuzzleRef{Kind: kind, CatalogID: p.CatalogID, CustomID: p.CustomID},
		Name:  p.Name,
		World: p.World,
	}
}

type idRequest struct {
	ID string `json:"id" validate:"required"`
}

// identityFromQuery reads kind, catalogId, customId, name and world. It
// reports false when no kind was given.
func identityFromQuery(r *http.Request) (models.PuzzleIdentity, bool, error) {
	q := r.URL.Query()
	if q.Get("kind") == "" {
		return models.PuzzleIdentity{}, false, nil
	}
	p := puzzlePayload{
		Kind:     q.Get("kind"),
		CustomID: q.Get("customId"),
		Name:     q.Get("name"),
		World:    q.Get("world"),
	}
	if raw := q.Get("catalogId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.PuzzleIdentity{}, false, err
		}
		p.CatalogID = uint32(id)
	}
	identity := p.identity()
	if err := identity.Validate(); err != nil {
		return models.PuzzleIdentity{}, false, err
	}
	return identity, true, nil
}

// decodePayload reads a size-limited JSON body into dst and runs its
// validate tags. It writes the error response itself and reports whether
// the handler should continue.
func decodePayload(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	v := validate.Struct(dst)
	if !v.Validate() {
		http.Error(w, v.Errors.One(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, logger providers.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrRecordNotFound),
		errors.Is(err, services.ErrPuzzleNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrInvalidPuzzle):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrDuplicateRecord):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Errorf(providers.TypeApp, "Request failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// serveFromCacheOrCompute answers from the response cache. Callers put the
// collection revision into the key, so a stale entry is never served after
// a change.
func serveFromCacheOrCompute(cache providers.CacheProviderInterface, w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
