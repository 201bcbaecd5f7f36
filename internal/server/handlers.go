package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/noor/internal/logger"
)

const maxDocumentBytes = 1 << 20

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.remote.GetAllUsers(r.Context())
	if err != nil {
		logger.Error("Failed to list users", "error", err)
		writeError(w, http.StatusBadGateway, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, found, err := s.remote.GetUser(r.Context(), id)
	if err != nil {
		logger.Error("Failed to read user", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "failed to read user")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handlePutUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		writeError(w, http.StatusBadRequest, "invalid user document")
		return
	}

	// the path names the document; a body id must agree with it
	profile, ok := doc["profile"].(map[string]any)
	if !ok {
		if _, present := doc["profile"]; present {
			writeError(w, http.StatusBadRequest, "profile must be an object")
			return
		}
		profile = map[string]any{}
		doc["profile"] = profile
	}
	if bodyID, present := profile["id"]; present && bodyID != id {
		writeError(w, http.StatusBadRequest, "profile id does not match path")
		return
	}
	profile["id"] = id

	if err := s.remote.SaveDocument(r.Context(), id, doc); err != nil {
		logger.Error("Failed to save user", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "failed to save user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.remote.DeleteUser(r.Context(), id); err != nil {
		logger.Error("Failed to delete user", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
