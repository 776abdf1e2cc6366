package indexing

import "strings"

// PathRule maps pages whose relative path contains any of Contains to a
// section and category.
type PathRule struct {
	Contains []string
	Section  Section
	Category Category
}

// PathRules is evaluated top to bottom; the first matching rule wins.
// Substrings are matched case-sensitively.
var PathRules = []PathRule{
	{Contains: []string{"getting-started"}, Section: SectionGettingStarted, Category: CategoryTutorial},
	{Contains: []string{"installation"}, Section: SectionGettingStarted, Category: CategoryGuide},
	{Contains: []string{"dynamic-contracts", "hooks", "wallets"}, Section: SectionCoreConcepts, Category: CategoryGuide},
	{Contains: []string{"examples"}, Section: SectionExamples, Category: CategoryExample},
	{Contains: []string{"troubleshooting", "api-reference"}, Section: SectionReference, Category: CategoryReference},
}

// DefaultPathRule applies when nothing in PathRules matches
var DefaultPathRule = PathRule{Section: SectionGuides, Category: CategoryGuide}

func (r PathRule) Matches(relPath string) bool {
	for _, s := range r.Contains {
		if strings.Contains(relPath, s) {
			return true
		}
	}
	return false
}

// ClassifyPath returns the section and category for a page path
func ClassifyPath(relPath string) (Section, Category) {
	for _, rule := range PathRules {
		if rule.Matches(relPath) {
			return rule.Section, rule.Category
		}
	}
	return DefaultPathRule.Section, DefaultPathRule.Category
}

// DifficultyRule assigns Difficulty when the lowercased content contains any of Signals
type DifficultyRule struct {
	Signals    []string
	Difficulty Difficulty
}

// DifficultyRules is checked in order: beginner signals win over advanced ones.
var DifficultyRules = []DifficultyRule{
	{Signals: []string{"beginner", "getting started", "quick start"}, Difficulty: DifficultyBeginner},
	{Signals: []string{"advanced", "complex", "expert"}, Difficulty: DifficultyAdvanced},
}

func ClassifyDifficulty(content string) Difficulty {
	lower := strings.ToLower(content)
	for _, rule := range DifficultyRules {
		for _, signal := range rule.Signals {
			if strings.Contains(lower, signal) {
				return rule.Difficulty
			}
		}
	}
	return DifficultyIntermediate
}
