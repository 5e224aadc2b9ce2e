package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/contracts"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

// Ограничение на размер тела запроса: ни один из контрактов не бывает большим.
const maxRequestBody = 1 << 20

// FavouritesHandler реализует обработчики /favourites и /favouritesReorder.
type FavouritesHandler struct {
	listUC    usecases_port.ListFavouritesUseCasePort
	addUC     usecases_port.AddFavouriteUseCasePort
	updateUC  usecases_port.UpdateFavouriteUseCasePort
	deleteUC  usecases_port.DeleteFavouriteUseCasePort
	reorderUC usecases_port.ReorderFavouritesUseCasePort
}

// NewFavouritesHandler - конструктор.
func NewFavouritesHandler(listUC usecases_port.ListFavouritesUseCasePort,
	addUC usecases_port.AddFavouriteUseCasePort,
	updateUC usecases_port.UpdateFavouriteUseCasePort,
	deleteUC usecases_port.DeleteFavouriteUseCasePort,
	reorderUC usecases_port.ReorderFavouritesUseCasePort) *FavouritesHandler {
	return &FavouritesHandler{
		listUC:    listUC,
		addUC:     addUC,
		updateUC:  updateUC,
		deleteUC:  deleteUC,
		reorderUC: reorderUC,
	}
}

// readValidatedBody читает тело и проверяет его против JSON-контракта.
func readValidatedBody(r *http.Request, contract string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, err
	}
	if err := contracts.ValidateJSON(contract, body); err != nil {
		return nil, err
	}
	return body, nil
}

// ListFavourites обрабатывает GET /favourites
func (h *FavouritesHandler) ListFavourites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListFavourites"})

	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID})
	handlerLogger.Info("Processing request to list favourites", nil)

	entries, err := h.listUC.Execute(r.Context(), userID)
	if err != nil {
		handlerLogger.Error("List favourites use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch favourites")
		return
	}

	response := make([]FavouriteListItemResponse, len(entries))
	for i, entry := range entries {
		response[i] = FavouriteListItemResponse{
			Title: entry.Title,
			URL:   entry.URL,
			Order: entry.Order,
		}
	}

	handlerLogger.Info("Successfully listed favourites", port.Fields{"count": len(response)})
	RespondWithJSON(w, http.StatusOK, response)
}

// AddFavourite обрабатывает POST /favourites
func (h *FavouritesHandler) AddFavourite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddFavourite"})

	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	body, err := readValidatedBody(r, contracts.AddFavouriteRequest)
	if err != nil {
		logger.Warn("Add favourite request violates contract", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Title and URL are required")
		return
	}

	var reqDTO AddFavouriteRequest
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		logger.Warn("Failed to decode request body for add favourite", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID, "url": reqDTO.URL})
	handlerLogger.Info("Processing request to add favourite", nil)

	entry, err := h.addUC.Execute(r.Context(), userID, reqDTO.Title, reqDTO.URL)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLimitExceeded):
			handlerLogger.Warn("Favourite limit reached", nil)
			WriteJSONError(w, http.StatusBadRequest, "Favorite limit reached")
		case errors.Is(err, domain.ErrDuplicate):
			handlerLogger.Warn("Favourite already exists", nil)
			WriteJSONError(w, http.StatusConflict, "Favourite already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			handlerLogger.Warn("Invalid add favourite input", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Title and URL are required")
		default:
			handlerLogger.Error("Add favourite use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to create favourite")
		}
		return
	}

	handlerLogger.Info("Successfully added favourite", port.Fields{"url": entry.URL})
	RespondWithJSON(w, http.StatusCreated, FavouriteResponse{Title: entry.Title, URL: entry.URL})
}

// UpdateFavourite обрабатывает PUT /favourites
func (h *FavouritesHandler) UpdateFavourite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateFavourite"})

	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	body, err := readValidatedBody(r, contracts.UpdateFavouriteRequest)
	if err != nil {
		logger.Warn("Update favourite request violates contract", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Title, URL, Old URL are required")
		return
	}

	var reqDTO UpdateFavouriteRequest
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		logger.Warn("Failed to decode request body for update favourite", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID, "old_url": reqDTO.OldURL})
	handlerLogger.Info("Processing request to update favourite", nil)

	entry, err := h.updateUC.Execute(r.Context(), userID, reqDTO.OldURL, reqDTO.Title, reqDTO.URL)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			handlerLogger.Warn("Favourite to update was not found", nil)
			WriteJSONError(w, http.StatusNotFound, "Favourite not found")
		case errors.Is(err, domain.ErrDuplicate):
			handlerLogger.Warn("New url collides with an existing favourite", nil)
			WriteJSONError(w, http.StatusConflict, "Favourite already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			handlerLogger.Warn("Invalid update favourite input", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Title, URL, Old URL are required")
		default:
			handlerLogger.Error("Update favourite use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to update favourite")
		}
		return
	}

	handlerLogger.Info("Successfully updated favourite", port.Fields{"url": entry.URL})
	RespondWithJSON(w, http.StatusOK, FavouriteResponse{Title: entry.Title, URL: entry.URL})
}

// DeleteFavourite обрабатывает DELETE /favourites?url=
func (h *FavouritesHandler) DeleteFavourite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteFavourite"})

	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	favouriteURL := r.URL.Query().Get("url")
	if favouriteURL == "" {
		logger.Warn("Missing url query parameter", nil)
		WriteJSONError(w, http.StatusBadRequest, "URL is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID, "url": favouriteURL})
	handlerLogger.Info("Processing request to delete favourite", nil)

	if err := h.deleteUC.Execute(r.Context(), userID, favouriteURL); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			handlerLogger.Warn("Favourite to delete was not found", nil)
			WriteJSONError(w, http.StatusNotFound, "Favourite not found")
		case errors.Is(err, domain.ErrInvalidInput):
			handlerLogger.Warn("Invalid delete favourite input", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "URL is required")
		default:
			handlerLogger.Error("Delete favourite use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to delete favourite")
		}
		return
	}

	handlerLogger.Info("Successfully deleted favourite", nil)
	w.WriteHeader(http.StatusNoContent)
}

// ReorderFavourites обрабатывает PUT /favouritesReorder
func (h *FavouritesHandler) ReorderFavourites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ReorderFavourites"})

	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	body, err := readValidatedBody(r, contracts.ReorderFavouritesRequest)
	if err != nil {
		logger.Warn("Reorder request violates contract", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var reqDTO ReorderFavouritesRequest
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		logger.Warn("Failed to decode request body for reorder", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	pairs := make([]domain.ReorderPair, len(reqDTO.UpdatedFavourites))
	for i, dto := range reqDTO.UpdatedFavourites {
		pairs[i] = domain.ReorderPair{URL: dto.URL, Order: dto.Order}
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID, "pairs": len(pairs)})
	handlerLogger.Info("Processing request to reorder favourites", nil)

	if err := h.reorderUC.Execute(r.Context(), userID, pairs); err != nil {
		switch {
		// Ссылка на чужой/несуществующий url делает невалидным весь пакет.
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
			handlerLogger.Warn("Invalid reorder input", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Invalid input")
		default:
			handlerLogger.Error("Reorder favourites use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to reorder favourites")
		}
		return
	}

	handlerLogger.Info("Successfully reordered favourites", nil)
	RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Favourites reordered successfully"})
}
