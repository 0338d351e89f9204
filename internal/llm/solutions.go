package llm

import (
	"regexp"
	"strings"

	"github.com/huracan-ai/huracan/internal/domain"
)

var (
	solutionMarker  = regexp.MustCompile(`(?i)SOLUTION:`)
	titleLeadTrim   = regexp.MustCompile(`^[:\-]\s*`)
	priorityPrefix  = regexp.MustCompile(`(?i)^PRIORITY:`)
	descPrefix      = regexp.MustCompile(`(?i)^DESCRIPTION:`)
	costPrefix      = regexp.MustCompile(`(?i)^COST:`)
	timePrefix      = regexp.MustCompile(`(?i)^TIME:`)
	resourcesPrefix = regexp.MustCompile(`(?i)^RESOURCES:`)
)

// ParseSolutions extracts structured repair recommendations from generated
// free text. Blocks are delimited by a case-insensitive SOLUTION: marker;
// within a block, labeled lines are matched by prefix and unrecognized
// lines are ignored. A block lacking a title or description is dropped.
func ParseSolutions(text string) []domain.Solution {
	var solutions []domain.Solution

	for _, block := range solutionMarker.Split(text, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}

		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) == 0 {
			continue
		}

		title := titleLeadTrim.ReplaceAllString(lines[0], "")
		// Models tend to wrap the title in markdown emphasis
		title = strings.TrimPrefix(title, "**")
		title = strings.TrimSuffix(title, "**")
		title = strings.TrimSpace(title)

		solution := domain.Solution{
			Title:           title,
			Priority:        domain.PriorityMedium,
			ResourcesNeeded: []string{},
		}

		for _, line := range lines[1:] {
			switch {
			case priorityPrefix.MatchString(line):
				solution.Priority = parsePriority(priorityPrefix.ReplaceAllString(line, ""))
			case descPrefix.MatchString(line):
				solution.Description = strings.TrimSpace(descPrefix.ReplaceAllString(line, ""))
			case costPrefix.MatchString(line):
				solution.EstimatedCost = strings.TrimSpace(costPrefix.ReplaceAllString(line, ""))
			case timePrefix.MatchString(line):
				solution.EstimatedTime = strings.TrimSpace(timePrefix.ReplaceAllString(line, ""))
			case resourcesPrefix.MatchString(line):
				solution.ResourcesNeeded = splitResources(resourcesPrefix.ReplaceAllString(line, ""))
			}
		}

		if solution.Title != "" && solution.Description != "" {
			solutions = append(solutions, solution)
		}
	}

	return solutions
}

func parsePriority(s string) domain.SolutionPriority {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "high"):
		return domain.PriorityHigh
	case strings.Contains(s, "low"):
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}

func splitResources(s string) []string {
	var resources []string
	for _, r := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(r); trimmed != "" {
			resources = append(resources, trimmed)
		}
	}
	if resources == nil {
		resources = []string{}
	}
	return resources
}
