package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/nerrad567/battery-monitor-core/internal/settings"
)

// UpdateSettingsRequest is the PUT /settings body. Both fields are
// optional; omitted fields are left unchanged.
type UpdateSettingsRequest struct {
	Threshold         *int      `json:"threshold"`
	ExcludedDeviceIDs *[]string `json:"excluded_device_ids"`
}

// handleGetSettings returns the current runtime settings.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.settings.Get(r.Context())
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		writeInternalError(w, "failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, current)
}

// handleUpdateSettings applies a partial settings update.
//
// The threshold is validated and persisted first; the exclusion list, if
// present, replaces the stored set (additions and removals are diffed
// against it). Every successful change nudges the monitor to
// re-evaluate via the store's change callback.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Threshold == nil && req.ExcludedDeviceIDs == nil {
		writeBadRequest(w, "at least one of threshold or excluded_device_ids must be set")
		return
	}

	ctx := r.Context()

	if req.Threshold != nil {
		if err := s.settings.SetThreshold(ctx, *req.Threshold); err != nil {
			if errors.Is(err, settings.ErrInvalidThreshold) {
				writeValidationError(w, "threshold must be between 0 and 100")
				return
			}
			s.logger.Error("failed to persist threshold", "error", err)
			writeInternalError(w, "failed to persist threshold")
			return
		}
	}

	if req.ExcludedDeviceIDs != nil {
		if err := s.applyExclusions(ctx, w, *req.ExcludedDeviceIDs); err != nil {
			return
		}
	}

	current, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("failed to reload settings", "error", err)
		writeInternalError(w, "failed to reload settings")
		return
	}

	writeJSON(w, http.StatusOK, current)
}

// applyExclusions replaces the stored exclusion set with the given list.
// It writes the error response itself and returns a non-nil error when
// the caller should stop.
func (s *Server) applyExclusions(ctx context.Context, w http.ResponseWriter, ids []string) error {
	desired := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			writeValidationError(w, "excluded_device_ids must not contain empty IDs")
			return errValidation
		}
		desired[id] = struct{}{}
	}

	current, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		writeInternalError(w, "failed to load settings")
		return err
	}

	existing := make(map[string]struct{}, len(current.ExcludedDeviceIDs))
	for _, id := range current.ExcludedDeviceIDs {
		existing[id] = struct{}{}
	}

	for id := range desired {
		if _, ok := existing[id]; ok {
			continue
		}
		if err := s.settings.AddExclusion(ctx, id); err != nil {
			s.logger.Error("failed to add exclusion", "device_id", id, "error", err)
			writeInternalError(w, "failed to persist exclusions")
			return err
		}
	}

	for id := range existing {
		if _, ok := desired[id]; ok {
			continue
		}
		if err := s.settings.RemoveExclusion(ctx, id); err != nil && !errors.Is(err, settings.ErrNotExcluded) {
			s.logger.Error("failed to remove exclusion", "device_id", id, "error", err)
			writeInternalError(w, "failed to persist exclusions")
			return err
		}
	}

	return nil
}

// errValidation marks a rejected request whose response was already written.
var errValidation = errors.New("api: validation failed")
