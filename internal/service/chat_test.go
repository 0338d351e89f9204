package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestChatService_CreateInspection(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		svc := NewChatService(inspectionRepo, new(MockMessageRepository), new(MockGenerator))

		inspectionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Inspection")).Return(nil)

		inspection, err := svc.CreateInspection(ctx, userID, "Roof damage")
		assert.NoError(t, err)
		assert.Equal(t, "Roof damage", inspection.Title)
		assert.Equal(t, userID, inspection.UserID)
	})

	t.Run("empty title defaults", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		svc := NewChatService(inspectionRepo, new(MockMessageRepository), new(MockGenerator))

		inspectionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Inspection")).Return(nil)

		inspection, err := svc.CreateInspection(ctx, userID, "")
		assert.NoError(t, err)
		assert.Equal(t, "New Chat", inspection.Title)
	})
}

func TestChatService_OwnershipGate(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	inspectionID := uuid.New()
	owned := &domain.Inspection{ID: inspectionID, UserID: owner}

	t.Run("foreign thread reads as not found", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		svc := NewChatService(inspectionRepo, new(MockMessageRepository), new(MockGenerator))

		inspectionRepo.On("Get", ctx, inspectionID).Return(owned, nil)

		_, err := svc.ListMessages(ctx, stranger, inspectionID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("absent thread reads as not found", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		svc := NewChatService(inspectionRepo, new(MockMessageRepository), new(MockGenerator))

		inspectionRepo.On("Get", ctx, inspectionID).Return(nil, nil)

		err := svc.DeleteInspection(ctx, owner, inspectionID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		inspectionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestChatService_ListMessages(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	inspectionID := uuid.New()
	owned := &domain.Inspection{ID: inspectionID, UserID: userID}

	t.Run("empty thread returns empty slice", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		messageRepo := new(MockMessageRepository)
		svc := NewChatService(inspectionRepo, messageRepo, new(MockGenerator))

		inspectionRepo.On("Get", ctx, inspectionID).Return(owned, nil)
		messageRepo.On("ListByInspection", ctx, inspectionID).Return(nil, nil)

		messages, err := svc.ListMessages(ctx, userID, inspectionID)
		assert.NoError(t, err)
		assert.NotNil(t, messages)
		assert.Empty(t, messages)
	})
}

func TestChatService_CreateMessage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	inspectionID := uuid.New()
	owned := &domain.Inspection{ID: inspectionID, UserID: userID}

	t.Run("nil images normalize to empty", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		messageRepo := new(MockMessageRepository)
		svc := NewChatService(inspectionRepo, messageRepo, new(MockGenerator))

		inspectionRepo.On("Get", ctx, inspectionID).Return(owned, nil)
		messageRepo.On("Create", ctx, mock.AnythingOfType("*domain.Message")).Return(nil)

		message, err := svc.CreateMessage(ctx, userID, domain.MessageCreate{
			InspectionID: inspectionID,
			Role:         "user",
			Content:      "hello",
		})
		assert.NoError(t, err)
		assert.NotNil(t, message.Images)
		assert.Empty(t, message.Images)
		assert.Equal(t, domain.RoleUser, message.Role)
	})
}

func TestChatService_GenerateTitle(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	inspectionID := uuid.New()
	owned := &domain.Inspection{ID: inspectionID, UserID: userID}
	exchange := []domain.Message{
		{Role: domain.RoleUser, Content: "My roof is leaking after the storm"},
		{Role: domain.RoleAssistant, Content: "Let's take a look."},
	}

	t.Run("persists the generated title", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		messageRepo := new(MockMessageRepository)
		generator := new(MockGenerator)
		svc := NewChatService(inspectionRepo, messageRepo, generator)

		inspectionRepo.On("Get", ctx, inspectionID).Return(owned, nil)
		messageRepo.On("ListFirstByInspection", ctx, inspectionID, 2).Return(exchange, nil)
		generator.On("SummarizeTitle", ctx, mock.AnythingOfType("string")).Return("Roof Leak Assessment", nil)
		inspectionRepo.On("UpdateTitle", ctx, inspectionID, "Roof Leak Assessment").Return(nil)

		title, err := svc.GenerateTitle(ctx, userID, inspectionID)
		assert.NoError(t, err)
		assert.Equal(t, "Roof Leak Assessment", title)
		inspectionRepo.AssertExpectations(t)
	})

	t.Run("truncates long titles", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		messageRepo := new(MockMessageRepository)
		generator := new(MockGenerator)
		svc := NewChatService(inspectionRepo, messageRepo, generator)

		long := strings.Repeat("a", 80)
		inspectionRepo.On("Get", ctx, inspectionID).Return(owned, nil)
		messageRepo.On("ListFirstByInspection", ctx, inspectionID, 2).Return(exchange, nil)
		generator.On("SummarizeTitle", ctx, mock.AnythingOfType("string")).Return(long, nil)
		inspectionRepo.On("UpdateTitle", ctx, inspectionID, long[:50]).Return(nil)

		title, err := svc.GenerateTitle(ctx, userID, inspectionID)
		assert.NoError(t, err)
		assert.Len(t, title, 50)
	})

	t.Run("requires two messages", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		messageRepo := new(MockMessageRepository)
		generator := new(MockGenerator)
		svc := NewChatService(inspectionRepo, messageRepo, generator)

		inspectionRepo.On("Get", ctx, inspectionID).Return(owned, nil)
		messageRepo.On("ListFirstByInspection", ctx, inspectionID, 2).Return(exchange[:1], nil)

		_, err := svc.GenerateTitle(ctx, userID, inspectionID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		generator.AssertNotCalled(t, "SummarizeTitle", mock.Anything, mock.Anything)
	})

	t.Run("generation failure surfaces as upstream", func(t *testing.T) {
		inspectionRepo := new(MockInspectionRepository)
		messageRepo := new(MockMessageRepository)
		generator := new(MockGenerator)
		svc := NewChatService(inspectionRepo, messageRepo, generator)

		inspectionRepo.On("Get", ctx, inspectionID).Return(owned, nil)
		messageRepo.On("ListFirstByInspection", ctx, inspectionID, 2).Return(exchange, nil)
		generator.On("SummarizeTitle", ctx, mock.AnythingOfType("string")).Return("", assert.AnError)

		_, err := svc.GenerateTitle(ctx, userID, inspectionID)
		assert.True(t, domain.IsUpstream(err))
		inspectionRepo.AssertNotCalled(t, "UpdateTitle", mock.Anything, mock.Anything, mock.Anything)
	})
}
