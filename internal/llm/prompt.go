package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/huracan-ai/huracan/internal/domain"
)

// BuildAddressPrompt asks the model to extract a home address from a
// conversation transcript. The model answers with the address string or the
// literal "null".
func BuildAddressPrompt(history string) string {
	return fmt.Sprintf(`Extract the home address from this conversation history if mentioned. Return only the address string or "null" if not found or unclear.
History: %s

Address:`, history)
}

// BuildSolutionsPrompt renders one image analysis into a damage-assessment
// prompt requesting SOLUTION-formatted repair recommendations.
func BuildSolutionsPrompt(analysis domain.ImageAnalysis, context string) string {
	var b strings.Builder
	b.WriteString("You are a hurricane damage assessment expert. Analyze the following image analysis data and provide actionable solutions for homeowners.\n\nImage Analysis Data:")

	if len(analysis.Objects) > 0 {
		b.WriteString("\nDetected Objects:\n")
		for _, obj := range analysis.Objects {
			fmt.Fprintf(&b, "- %s (confidence: %d%%)\n", obj.Object, roundPercent(obj.Confidence))
		}
	}

	if len(analysis.Tags) > 0 {
		b.WriteString("\nImage Tags:\n")
		for _, tag := range analysis.Tags {
			fmt.Fprintf(&b, "- %s (confidence: %d%%)\n", tag.Name, roundPercent(tag.Confidence))
		}
	}

	if len(analysis.Captions) > 0 {
		b.WriteString("\nImage Descriptions:\n")
		for _, caption := range analysis.Captions {
			fmt.Fprintf(&b, "- %s (confidence: %d%%)\n", caption.Text, roundPercent(caption.Confidence))
		}
	}

	if context != "" {
		fmt.Fprintf(&b, "\nAdditional Context: %s\n", context)
	}

	b.WriteString(`
Please provide a prioritized list of repair solutions. For EACH solution, use this EXACT format:
SOLUTION: [Title]
PRIORITY: [High/Medium/Low]
DESCRIPTION: [Detailed description]
COST: [Estimated cost range or specific amount]
TIME: [Estimated time to complete]
RESOURCES: [Required materials/tools]

Provide 3-5 solutions based on the damage detected. Be specific with costs and timeframes.`)

	return b.String()
}

// BuildAidPrompt asks the model to explain disaster declarations and the
// aid programs they unlock for an address.
func BuildAidPrompt(disasters []domain.Disaster, address string) string {
	var lines []string
	for _, d := range disasters {
		lines = append(lines, fmt.Sprintf("- %s (%s) - %s", d.Title, d.State, d.DeclarationDate))
	}

	return fmt.Sprintf(`You are a FEMA assistance expert. Explain the following disaster declarations and available aid programs for the address: %s
Disaster Declarations:
%s

Please provide:
1. Explanation of what these disaster declarations mean
2. Available FEMA assistance programs
3. How to apply for assistance
4. Important deadlines and requirements
5. Additional resources and contacts

Format your response in a helpful, easy-to-understand way for homeowners seeking assistance.`,
		address, strings.Join(lines, "\n"))
}

// BuildTitlePrompt asks for a short thread title summarizing a conversation
func BuildTitlePrompt(conversation string) string {
	return fmt.Sprintf("Summarize this conversation in a short, concise title (max 50 characters):\n\n%s", conversation)
}

// ReplyContext carries everything the final assistant-reply prompt embeds
type ReplyContext struct {
	History       string
	Analyses      []domain.ImageAnalysis
	DamageSummary string
	Solutions     string
	AidInfo       string
}

// BuildReplyPrompt assembles the persona template for the one final
// generation call of an orchestrated turn. The template is deliberately
// over-specified (greeting rule, closing-question rule, tone) because the
// model is the only component enforcing conversational consistency.
func BuildReplyPrompt(rc ReplyContext) string {
	analyses := "No images provided."
	if len(rc.Analyses) > 0 {
		if data, err := json.MarshalIndent(rc.Analyses, "", "  "); err == nil {
			analyses = string(data)
		}
	}

	damageSummary := rc.DamageSummary
	if damageSummary == "" {
		damageSummary = "No damage analysis available."
	}

	solutions := rc.Solutions
	if solutions == "" {
		solutions = "No solutions generated."
	}

	aidInfo := rc.AidInfo
	if aidInfo == "" {
		aidInfo = "No relevant disaster declarations found."
	}

	return fmt.Sprintf(`You are Huracan, an AI assistant specialized in post-hurricane house inspections and recovery assistance.
Your purpose is to:
- Analyze house damage from uploaded images.
- Provide detailed damage reports.
- Suggest practical repair solutions.
- Guide users on accessing aid from FEMA and other resources.
- Be empathetic, helpful, and clear.
Behavior guidelines:
- Always start with a greeting in the first response: "Hello! I'm Huracan, your AI assistant for post-hurricane recovery."
- If the user's message is unrelated to house inspection or hurricane damage, politely explain your purpose and ask how you can help with their house.
- If images are provided, use the analysis to provide a damage report and suggest solutions.
- If relevant (e.g., damage detected or aid mentioned), include aid information from FEMA or nonprofits.
- Use the provided analysis, summary, solutions, and FEMA info to craft a natural, flowing response.
- Keep responses concise yet informative.
- End with a question to continue the conversation, e.g., "Do you have more images or details?" or "What's your home address for more specific aid info?"
Conversation history:
%s
Image analysis:
%s
Damage summary:
%s
Solutions:
%s
FEMA and aid information:
%s
Generate the response as Huracan. Do not include any prompts or metadata in the output.`,
		rc.History, analyses, damageSummary, solutions, aidInfo)
}

func roundPercent(confidence float64) int {
	return int(math.Round(confidence * 100))
}
