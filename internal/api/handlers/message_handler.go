package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/avilam/mensajeria-be/internal/services"
	"github.com/avilam/mensajeria-be/internal/storage"
)

// maxUploadBytes bounds multipart form memory usage on the upload route.
const maxUploadBytes = 10 << 20

// MessageHandler handles HTTP requests for direct messaging.
type MessageHandler struct {
	service services.MessageServiceProvider
	uploads *storage.UploadStore
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service services.MessageServiceProvider, uploads *storage.UploadStore) *MessageHandler {
	return &MessageHandler{service: service, uploads: uploads}
}

// SendPayload defines the structure for send-message requests.
type SendPayload struct {
	UserID      *int64  `json:"userId"`
	RecipientID *int64  `json:"recipient_id"`
	Message     *string `json:"message"`
	ImageURL    *string `json:"imageUrl"`
}

// Send handles posting a message between two users.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var payload SendPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.UserID == nil || *payload.UserID == 0 || payload.RecipientID == nil || *payload.RecipientID == 0 {
		respondError(w, http.StatusBadRequest, "Bad request. Please provide sender and recipient IDs.")
		return
	}

	if _, err := h.service.SendMessage(r.Context(), *payload.UserID, *payload.RecipientID, payload.Message, payload.ImageURL); err != nil {
		log.Error().Err(err).Int64("sender_id", *payload.UserID).Msg("Failed to send message")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully."})
}

// Conversation handles retrieving the ordered message history between two users.
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	user1ID, err1 := strconv.ParseInt(chi.URLParam(r, "user1Id"), 10, 64)
	user2ID, err2 := strconv.ParseInt(chi.URLParam(r, "user2Id"), 10, 64)
	if err1 != nil || err2 != nil {
		respondError(w, http.StatusBadRequest, "Bad request. Please provide valid user IDs.")
		return
	}

	messages, err := h.service.GetConversation(r.Context(), user1ID, user2ID)
	if err != nil {
		log.Error().Err(err).Int64("user1_id", user1ID).Int64("user2_id", user2ID).Msg("Failed to retrieve conversation")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// Upload handles a multipart message post with an optional image file. The
// file, when present, is stored under a generated unique name and that name
// is recorded as the message's image reference.
func (h *MessageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	text := r.FormValue("text")
	file, header, err := r.FormFile("image")
	hasFile := err == nil

	if !hasFile && text == "" {
		respondError(w, http.StatusBadRequest, "No text or image provided")
		return
	}

	userID, err1 := strconv.ParseInt(r.FormValue("userId"), 10, 64)
	recipientID, err2 := strconv.ParseInt(r.FormValue("recipientId"), 10, 64)
	if err1 != nil || err2 != nil {
		respondError(w, http.StatusBadRequest, "Bad request. Please provide sender and recipient IDs.")
		return
	}

	var textPtr *string
	if text != "" {
		textPtr = &text
	}

	var imagePtr *string
	if hasFile {
		defer file.Close()
		name, err := h.uploads.Save(file, header.Filename)
		if err != nil {
			log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to store uploaded image")
			respondError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		imagePtr = &name
	}

	affected, err := h.service.SendMessage(r.Context(), userID, recipientID, textPtr, imagePtr)
	if err != nil {
		log.Error().Err(err).Int64("sender_id", userID).Msg("Failed to insert message")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if affected == 0 {
		log.Error().Err(services.ErrInsertFailed).Int64("sender_id", userID).Msg("Message insert affected no rows")
		respondError(w, http.StatusBadRequest, "Failed to insert into the database.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Message uploaded successfully"})
}
