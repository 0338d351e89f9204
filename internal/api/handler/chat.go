package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/api/middleware"
	"github.com/huracan-ai/huracan/internal/api/response"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/huracan-ai/huracan/internal/service"
)

// ChatHandler handles inspection and message endpoints
type ChatHandler struct {
	chatService  *service.ChatService
	replyService *service.ReplyService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, replyService *service.ReplyService) *ChatHandler {
	return &ChatHandler{chatService: chatService, replyService: replyService}
}

// inspectionRef is the body shape for endpoints addressing one thread
type inspectionRef struct {
	InspectionID uuid.UUID `json:"inspectionId" validate:"required"`
}

// CreateInspection opens a new chat thread
func (h *ChatHandler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	inspection, err := h.chatService.CreateInspection(r.Context(), userID, input.Title)
	if err != nil {
		response.InternalError(w, "failed to create inspection")
		return
	}
	response.OK(w, inspection)
}

// ListInspections returns the caller's threads, newest first
func (h *ChatHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	inspections, err := h.chatService.ListInspections(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to list inspections")
		return
	}
	if inspections == nil {
		inspections = []domain.Inspection{}
	}
	response.OK(w, inspections)
}

// DeleteInspection removes a thread and its messages
func (h *ChatHandler) DeleteInspection(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input struct {
		ID uuid.UUID `json:"id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == uuid.Nil {
		response.BadRequest(w, "inspection id is required")
		return
	}

	if err := h.chatService.DeleteInspection(r.Context(), userID, input.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "inspection not found")
			return
		}
		response.InternalError(w, "failed to delete inspection")
		return
	}
	response.OK(w, map[string]any{"message": "inspection deleted"})
}

// ListMessages returns a thread's messages in creation order
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	inspectionID, err := uuid.Parse(r.URL.Query().Get("inspectionId"))
	if err != nil {
		response.BadRequest(w, "inspectionId is required")
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), userID, inspectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "inspection not found")
			return
		}
		response.InternalError(w, "failed to list messages")
		return
	}
	response.OK(w, messages)
}

// CreateMessage appends a message to a thread
func (h *ChatHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.MessageCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	message, err := h.chatService.CreateMessage(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "inspection not found")
			return
		}
		response.InternalError(w, "failed to create message")
		return
	}
	response.OK(w, message)
}

// GenerateReply runs the full orchestration for a thread and returns the
// assistant text. The caller persists it as a message in a follow-up call.
func (h *ChatHandler) GenerateReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input inspectionRef
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.InspectionID == uuid.Nil {
		response.BadRequest(w, "inspectionId is required")
		return
	}

	reply, err := h.replyService.GenerateReply(r.Context(), userID, input.InspectionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "inspection not found")
		case errors.Is(err, domain.ErrInvalidState):
			response.BadRequest(w, "conversation is not awaiting a reply")
		case domain.IsUpstream(err):
			response.BadGateway(w, "reply generation failed")
		default:
			response.InternalError(w, "failed to generate reply")
		}
		return
	}
	response.OK(w, map[string]any{"reply": reply})
}

// GenerateTitle summarizes the initial exchange into a thread title
func (h *ChatHandler) GenerateTitle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input inspectionRef
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.InspectionID == uuid.Nil {
		response.BadRequest(w, "inspectionId is required")
		return
	}

	title, err := h.chatService.GenerateTitle(r.Context(), userID, input.InspectionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "inspection not found")
		case errors.Is(err, domain.ErrInvalidState):
			response.BadRequest(w, "not enough messages to summarize")
		default:
			response.InternalError(w, "failed to generate title")
		}
		return
	}
	response.OK(w, map[string]any{"title": title})
}
