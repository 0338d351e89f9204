package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/huracan-ai/huracan/internal/fema"
	"github.com/huracan-ai/huracan/internal/geocode"
	"github.com/huracan-ai/huracan/internal/llm"
	"github.com/huracan-ai/huracan/internal/vision"
	"github.com/rs/zerolog/log"
)

// ReplyService assembles one assistant reply per orchestrated turn. It has
// no memory between invocations beyond what it re-reads from the store.
type ReplyService struct {
	inspectionRepo domain.InspectionRepository
	messageRepo    domain.MessageRepository
	analyzer       vision.Analyzer
	generator      llm.Generator
	geocoder       geocode.Geocoder
	feed           fema.Feed
}

// NewReplyService creates a new reply orchestrator
func NewReplyService(
	inspectionRepo domain.InspectionRepository,
	messageRepo domain.MessageRepository,
	analyzer vision.Analyzer,
	generator llm.Generator,
	geocoder geocode.Geocoder,
	feed fema.Feed,
) *ReplyService {
	return &ReplyService{
		inspectionRepo: inspectionRepo,
		messageRepo:    messageRepo,
		analyzer:       analyzer,
		generator:      generator,
		geocoder:       geocoder,
		feed:           feed,
	}
}

// GenerateReply produces exactly one assistant message for a thread,
// synthesizing image analysis, repair advice, and disaster-aid context from
// the message history. Address extraction, geocoding, and aid lookup are
// best-effort; image analysis and generation calls are not, and any such
// failure aborts the whole turn.
func (s *ReplyService) GenerateReply(ctx context.Context, userID, inspectionID uuid.UUID) (string, error) {
	inspection, err := s.inspectionRepo.Get(ctx, inspectionID)
	if err != nil {
		return "", fmt.Errorf("failed to get inspection: %w", err)
	}
	if inspection == nil || inspection.UserID != userID {
		return "", fmt.Errorf("inspection %s: %w", inspectionID, domain.ErrNotFound)
	}

	messages, err := s.messageRepo.ListByInspection(ctx, inspectionID)
	if err != nil {
		return "", fmt.Errorf("failed to list messages: %w", err)
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages: %w", domain.ErrInvalidState)
	}

	latest := messages[len(messages)-1]
	if latest.Role != domain.RoleUser {
		// Never two assistant replies in a row
		return "", fmt.Errorf("last message not from user: %w", domain.ErrInvalidState)
	}

	history := transcript(messages, "\n\n")

	address, state := s.locate(ctx, history)

	var analyses []domain.ImageAnalysis
	var damageSummaries []string
	var solutionsTexts []string

	// Per-image results are collected positionally so the assembled prompt
	// preserves image order
	for _, imageURL := range latest.Images {
		analysis, err := s.analyzer.Analyze(ctx, imageURL)
		if err != nil {
			return "", domain.NewUpstreamError("image analysis", err)
		}
		analyses = append(analyses, analysis)
		damageSummaries = append(damageSummaries, vision.DamageSummary(analysis))

		solutionsText, err := s.generator.GenerateSolutions(ctx, analysis, latest.Content)
		if err != nil {
			return "", domain.NewUpstreamError("solution generation", err)
		}
		solutionsTexts = append(solutionsTexts, solutionsText)
	}

	aidInfo := s.aidExplanation(ctx, address, state)

	prompt := llm.BuildReplyPrompt(llm.ReplyContext{
		History:       history,
		Analyses:      analyses,
		DamageSummary: joinBlocks(damageSummaries),
		Solutions:     joinBlocks(solutionsTexts),
		AidInfo:       aidInfo,
	})

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", domain.NewUpstreamError("reply generation", err)
	}

	return reply, nil
}

// locate extracts an address from the transcript and resolves it to a
// state. Both steps are best-effort: failure only suppresses
// location-specific enrichment.
func (s *ReplyService) locate(ctx context.Context, history string) (address, state string) {
	address, err := s.generator.ExtractAddress(ctx, history)
	if err != nil {
		log.Warn().Err(err).Msg("address extraction failed, skipping location enrichment")
		return "", ""
	}
	if address == "" {
		return "", ""
	}

	location, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Warn().Err(err).Msg("geocoding failed, skipping location enrichment")
		return address, ""
	}
	if location == nil {
		return address, ""
	}
	return address, location.State
}

// aidExplanation queries the disaster feed and, when declarations exist,
// asks the model to explain them. Best-effort: an empty string means no
// aid context for this turn.
func (s *ReplyService) aidExplanation(ctx context.Context, address, state string) string {
	disasters, err := s.feed.RecentDeclarations(ctx, state)
	if err != nil {
		log.Warn().Err(err).Msg("disaster feed lookup failed, skipping aid info")
		return ""
	}
	if len(disasters) == 0 {
		return ""
	}

	if address == "" {
		address = "your area"
	}
	explanation, err := s.generator.ExplainDisasterAid(ctx, disasters, address)
	if err != nil {
		log.Warn().Err(err).Msg("aid explanation failed, skipping aid info")
		return ""
	}
	return explanation
}

func joinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n---\n\n")
}
