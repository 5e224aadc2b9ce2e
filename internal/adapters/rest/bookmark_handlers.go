package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/contracts"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

// BookmarkHandler реализует обработчики /bookmark.
type BookmarkHandler struct {
	getUC    usecases_port.GetBookmarkLinkUseCasePort
	setUC    usecases_port.SetBookmarkLinkUseCasePort
	deleteUC usecases_port.DeleteBookmarkLinkUseCasePort
}

// NewBookmarkHandler - конструктор.
func NewBookmarkHandler(getUC usecases_port.GetBookmarkLinkUseCasePort,
	setUC usecases_port.SetBookmarkLinkUseCasePort,
	deleteUC usecases_port.DeleteBookmarkLinkUseCasePort) *BookmarkHandler {
	return &BookmarkHandler{
		getUC:    getUC,
		setUC:    setUC,
		deleteUC: deleteUC,
	}
}

// GetBookmark обрабатывает GET /bookmark
func (h *BookmarkHandler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetBookmark"})

	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID})
	handlerLogger.Info("Processing request to get bookmark file key", nil)

	fileKey, err := h.getUC.Execute(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			handlerLogger.Warn("No bookmark file key for user", nil)
			WriteJSONError(w, http.StatusNotFound, "File key not found")
			return
		}
		handlerLogger.Error("Get bookmark link use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch file key")
		return
	}

	handlerLogger.Info("Successfully fetched bookmark file key", nil)
	RespondWithJSON(w, http.StatusOK, BookmarkResponse{FileKey: fileKey})
}

// SetBookmark обрабатывает POST /bookmark
func (h *BookmarkHandler) SetBookmark(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SetBookmark"})

	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	body, err := readValidatedBody(r, contracts.SetBookmarkRequest)
	if err != nil {
		logger.Warn("Set bookmark request violates contract", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "File key is required")
		return
	}

	var reqDTO SetBookmarkRequest
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		logger.Warn("Failed to decode request body for set bookmark", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID})
	handlerLogger.Info("Processing request to set bookmark file key", nil)

	created, err := h.setUC.Execute(r.Context(), userID, reqDTO.FileKey)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			handlerLogger.Warn("Invalid set bookmark input", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "File key is required")
			return
		}
		handlerLogger.Error("Set bookmark link use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to create or update bookmark")
		return
	}

	// 201 - первая привязка, 200 - замена существующей.
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	handlerLogger.Info("Successfully set bookmark file key", port.Fields{"created": created})
	RespondWithJSON(w, status, MessageResponse{Message: "Bookmark has been successfully updated"})
}

// DeleteBookmark обрабатывает DELETE /bookmark
func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteBookmark"})

	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID})
	handlerLogger.Info("Processing request to delete bookmark file key", nil)

	if err := h.deleteUC.Execute(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			handlerLogger.Warn("No bookmark file key to delete", nil)
			WriteJSONError(w, http.StatusNotFound, "File key not found")
			return
		}
		handlerLogger.Error("Delete bookmark link use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to delete file key")
		return
	}

	handlerLogger.Info("Successfully deleted bookmark file key", nil)
	w.WriteHeader(http.StatusNoContent)
}
