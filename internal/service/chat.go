package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/huracan-ai/huracan/internal/llm"
	"github.com/rs/zerolog/log"
)

const (
	defaultTitle   = "New Chat"
	maxTitleLength = 50
)

// ChatService handles inspections and their message history
type ChatService struct {
	inspectionRepo domain.InspectionRepository
	messageRepo    domain.MessageRepository
	generator      llm.Generator
}

// NewChatService creates a new chat service
func NewChatService(inspectionRepo domain.InspectionRepository, messageRepo domain.MessageRepository, generator llm.Generator) *ChatService {
	return &ChatService{
		inspectionRepo: inspectionRepo,
		messageRepo:    messageRepo,
		generator:      generator,
	}
}

// CreateInspection opens a new chat thread owned by the caller
func (s *ChatService) CreateInspection(ctx context.Context, userID uuid.UUID, title string) (*domain.Inspection, error) {
	if title == "" {
		title = defaultTitle
	}
	inspection := &domain.Inspection{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := s.inspectionRepo.Create(ctx, inspection); err != nil {
		return nil, fmt.Errorf("failed to create inspection: %w", err)
	}
	return inspection, nil
}

// ListInspections returns the caller's threads, newest first
func (s *ChatService) ListInspections(ctx context.Context, userID uuid.UUID) ([]domain.Inspection, error) {
	return s.inspectionRepo.ListByUser(ctx, userID)
}

// DeleteInspection removes a thread and, cascading, its messages
func (s *ChatService) DeleteInspection(ctx context.Context, userID, inspectionID uuid.UUID) error {
	if _, err := s.ownedInspection(ctx, userID, inspectionID); err != nil {
		return err
	}
	if err := s.inspectionRepo.Delete(ctx, inspectionID); err != nil {
		return fmt.Errorf("failed to delete inspection: %w", err)
	}
	return nil
}

// ListMessages returns a thread's messages in creation order
func (s *ChatService) ListMessages(ctx context.Context, userID, inspectionID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.ownedInspection(ctx, userID, inspectionID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// CreateMessage appends a message to a thread owned by the caller
func (s *ChatService) CreateMessage(ctx context.Context, userID uuid.UUID, input domain.MessageCreate) (*domain.Message, error) {
	if _, err := s.ownedInspection(ctx, userID, input.InspectionID); err != nil {
		return nil, err
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	message := &domain.Message{
		ID:           uuid.New(),
		InspectionID: input.InspectionID,
		Role:         domain.MessageRole(input.Role),
		Content:      input.Content,
		Images:       images,
		CreatedAt:    time.Now(),
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return message, nil
}

// GenerateTitle summarizes the initial user/assistant exchange into a short
// thread title and persists it. Requires at least two messages.
func (s *ChatService) GenerateTitle(ctx context.Context, userID, inspectionID uuid.UUID) (string, error) {
	if _, err := s.ownedInspection(ctx, userID, inspectionID); err != nil {
		return "", err
	}

	// Only the initial exchange is needed for the summary
	messages, err := s.messageRepo.ListFirstByInspection(ctx, inspectionID, 2)
	if err != nil {
		return "", fmt.Errorf("failed to list messages: %w", err)
	}
	if len(messages) < 2 {
		return "", fmt.Errorf("insufficient messages for summary: %w", domain.ErrInvalidState)
	}

	title, err := s.generator.SummarizeTitle(ctx, transcript(messages, "\n"))
	if err != nil {
		return "", domain.NewUpstreamError("title generation", err)
	}

	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}
	if title == "" {
		title = defaultTitle
	}

	if err := s.inspectionRepo.UpdateTitle(ctx, inspectionID, title); err != nil {
		return "", fmt.Errorf("failed to update title: %w", err)
	}

	log.Info().Str("inspection_id", inspectionID.String()).Str("title", title).Msg("updated inspection title")
	return title, nil
}

// ownedInspection loads an inspection and enforces ownership. Absent and
// foreign threads are indistinguishable to the caller.
func (s *ChatService) ownedInspection(ctx context.Context, userID, inspectionID uuid.UUID) (*domain.Inspection, error) {
	inspection, err := s.inspectionRepo.Get(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}
	if inspection == nil || inspection.UserID != userID {
		return nil, fmt.Errorf("inspection %s: %w", inspectionID, domain.ErrNotFound)
	}
	return inspection, nil
}

// transcript renders messages as "ROLE: content" blocks joined by sep
func transcript(messages []domain.Message, sep string) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = fmt.Sprintf("%s: %s", strings.ToUpper(string(m.Role)), m.Content)
	}
	return strings.Join(parts, sep)
}
