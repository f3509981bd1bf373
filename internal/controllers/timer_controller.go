package controllers

import (
	"errors"
	"net/http"

	"jumptimer/internal/models"
	"jumptimer/internal/providers"
	"jumptimer/internal/services"
	"jumptimer/internal/speedrun"
)

// TimerController exposes the session machine to an overlay. Every command
// goes through the driver, so HTTP calls and the frame loop never race.
type TimerController struct {
	logger    providers.Logger
	driver    *speedrun.Driver
	templates services.TemplateServiceInterface
	records   services.RecordServiceInterface
	puzzles   services.PuzzleServiceInterface
}

type timerView struct {
	speedrun.Snapshot
	PersonalBest *models.Record      `json:"personalBest,omitempty"`
	Deltas       []models.SplitDelta `json:"deltas,omitempty"`
}

type selectPuzzleRequest struct {
	puzzlePayload
	Clear bool `json:"clear"`
}

type selectTemplateRequest struct {
	TemplateID string `json:"templateId"`
}

type startRequest struct {
	CustomFields map[string]string `json:"customFields"`
}

func NewTimerController(logger providers.Logger, driver *speedrun.Driver, templates services.TemplateServiceInterface, records services.RecordServiceInterface, puzzles services.PuzzleServiceInterface) *TimerController {
	return &TimerController{
		logger:    logger,
		driver:    driver,
		templates: templates,
		records:   records,
		puzzles:   puzzles,
	}
}

func (tc *TimerController) view() timerView {
	var snap speedrun.Snapshot
	tc.driver.Do(func(m *speedrun.Machine) {
		snap = m.Snapshot()
	})

	v := timerView{Snapshot: snap}
	if snap.Puzzle != nil {
		// A finished run is compared against the best of the other runs.
		var shown string
		if snap.State == speedrun.StateFinished && snap.LastRecord != nil {
			shown = snap.LastRecord.ID
		}
		if pb, ok := tc.records.PersonalBestExcept(*snap.Puzzle, shown); ok {
			v.PersonalBest = &pb
			v.Deltas = models.CompareSplits(snap.Checkpoints, pb.Checkpoints)
		}
	}
	return v
}

// command runs fn on the machine. A rejected command answers 409 with the
// unchanged state.
func (tc *TimerController) command(w http.ResponseWriter, name string, fn func(m *speedrun.Machine) bool) {
	var ok bool
	tc.driver.Do(func(m *speedrun.Machine) {
		ok = fn(m)
	})
	if !ok {
		tc.logger.Debugf(providers.TypeTimer, "Command %s rejected", name)
		writeJSON(w, http.StatusConflict, tc.view())
		return
	}
	writeJSON(w, http.StatusOK, tc.view())
}

func (tc *TimerController) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tc.view())
}

func (tc *TimerController) SelectPuzzle(w http.ResponseWriter, r *http.Request) {
	var payload selectPuzzleRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	if payload.Clear {
		tc.command(w, "clear-puzzle", (*speedrun.Machine).ClearPuzzle)
		return
	}

	identity := payload.identity()
	if identity.Ref.IsGeneric() {
		http.Error(w, "puzzle kind must be catalog or custom", http.StatusBadRequest)
		return
	}
	if identity.Ref.IsCustom() && identity.Ref.CustomID != "" {
		custom, ok := tc.puzzles.Get(identity.Ref.CustomID)
		if !ok {
			writeError(w, tc.logger, services.ErrPuzzleNotFound)
			return
		}
		identity = custom.Identity()
	}
	if err := identity.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tc.command(w, "select-puzzle", func(m *speedrun.Machine) bool {
		return m.SelectPuzzle(identity)
	})
}

// SelectTemplate binds a stored template. An empty id unbinds. A template
// bound to another puzzle than the selected one is refused.
func (tc *TimerController) SelectTemplate(w http.ResponseWriter, r *http.Request) {
	var payload selectTemplateRequest
	if !decodePayload(w, r, &payload) {
		return
	}
	if payload.TemplateID == "" {
		tc.command(w, "unbind-template", func(m *speedrun.Machine) bool {
			return m.SelectTemplate(nil)
		})
		return
	}

	tpl, ok := tc.templates.Get(payload.TemplateID)
	if !ok {
		writeError(w, tc.logger, services.ErrTemplateNotFound)
		return
	}

	var mismatch bool
	tc.command(w, "select-template", func(m *speedrun.Machine) bool {
		if p, bound := m.Puzzle(); bound && !tpl.AppliesTo(p) {
			mismatch = true
			return false
		}
		return m.SelectTemplate(&tpl)
	})
	if mismatch {
		tc.logger.Debugf(providers.TypeTimer, "Template %s does not apply to the selected puzzle", tpl.ID)
	}
}

func (tc *TimerController) Start(w http.ResponseWriter, r *http.Request) {
	var payload startRequest
	if r.ContentLength != 0 && !decodePayload(w, r, &payload) {
		return
	}
	tc.command(w, "start", func(m *speedrun.Machine) bool {
		return m.StartCountdown(payload.CustomFields)
	})
}

func (tc *TimerController) Skip(w http.ResponseWriter, r *http.Request) {
	tc.command(w, "skip", (*speedrun.Machine).SkipCountdown)
}

func (tc *TimerController) Split(w http.ResponseWriter, r *http.Request) {
	tc.command(w, "split", (*speedrun.Machine).MarkSplit)
}

func (tc *TimerController) Stop(w http.ResponseWriter, r *http.Request) {
	tc.command(w, "stop", (*speedrun.Machine).StopTimer)
}

func (tc *TimerController) Reset(w http.ResponseWriter, r *http.Request) {
	tc.command(w, "reset", func(m *speedrun.Machine) bool {
		m.ResetTimer()
		return true
	})
}

// Save appends the last finished run to the record store. It is the manual
// path when auto-save is off.
func (tc *TimerController) Save(w http.ResponseWriter, r *http.Request) {
	var (
		rec models.Record
		ok  bool
	)
	tc.driver.Do(func(m *speedrun.Machine) {
		rec, ok = m.LastRecord()
	})
	if !ok {
		http.Error(w, "no finished run to save", http.StatusConflict)
		return
	}
	if err := tc.records.Append(rec); err != nil {
		if errors.Is(err, services.ErrDuplicateRecord) {
			http.Error(w, "run already saved", http.StatusConflict)
			return
		}
		writeError(w, tc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
