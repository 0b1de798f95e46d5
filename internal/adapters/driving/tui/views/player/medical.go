package player

import "strings"

// medicalKeywords drive the cosmetic "Medical Term" badge.
var medicalKeywords = []string{
	"temperature",
	"fever",
	"medicine",
	"doctor",
	"symptoms",
	"nauseous",
	"vomited",
	"diarrhea",
	"poisoning",
	"degrees",
}

// IsMedicalTerm reports whether word contains one of the medical keywords,
// ignoring case.
func IsMedicalTerm(word string) bool {
	w := strings.ToLower(word)
	if w == "" {
		return false
	}
	for _, k := range medicalKeywords {
		if strings.Contains(w, k) {
			return true
		}
	}
	return false
}
