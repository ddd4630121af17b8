package assessment

import (
	"strings"
	"unicode"

	"biliran-rental-backend/internal/domain"
)

// KeywordClassifier flags policy violations in free-text return notes.
type KeywordClassifier interface {
	Classify(notes string) []domain.PenaltyCategory
}

// keywords match anywhere in the notes; words only match whole words, so
// "pet" does not fire on "carpet".
type keywordCategory struct {
	category    domain.PenaltyCategory
	description string
	fee         int64
	keywords    []string
	words       []string
}

var keywordCategories = []keywordCategory{
	{
		category:    domain.PenaltySmoking,
		description: "Smoking violation noted on return",
		fee:         3000,
		keywords:    []string{"smoke", "smoking", "cigarette", "vape"},
	},
	{
		category:    domain.PenaltyPet,
		description: "Pet violation noted on return",
		fee:         1500,
		keywords:    []string{"pet hair", "dog hair", "cat hair", "pet smell", "animal"},
		words:       []string{"pet", "pets", "dog", "dogs", "puppy", "cat", "cats", "kitten"},
	},
	{
		category:    domain.PenaltyCleaning,
		description: "Cleaning required on return",
		fee:         1000,
		keywords:    []string{"dirty", "trash", "garbage", "stain", "vomit", "mud"},
	},
}

// substringClassifier matches case-insensitively. Each category is reported
// at most once.
type substringClassifier struct{}

func (substringClassifier) Classify(notes string) []domain.PenaltyCategory {
	text := strings.ToLower(notes)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) }) {
		words[w] = true
	}

	var found []domain.PenaltyCategory
	for _, kc := range keywordCategories {
		if kc.matches(text, words) {
			found = append(found, kc.category)
		}
	}
	return found
}

func (kc keywordCategory) matches(text string, words map[string]bool) bool {
	for _, kw := range kc.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, w := range kc.words {
		if words[w] {
			return true
		}
	}
	return false
}

func DefaultKeywordClassifier() KeywordClassifier {
	return substringClassifier{}
}

func keywordItem(category domain.PenaltyCategory) (domain.PenaltyLineItem, bool) {
	for _, kc := range keywordCategories {
		if kc.category == category {
			return domain.PenaltyLineItem{Category: kc.category, Description: kc.description, Amount: kc.fee}, true
		}
	}
	return domain.PenaltyLineItem{}, false
}
