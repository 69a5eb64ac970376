package utils

import (
	"regexp"
	"strings"
)

// NormalizeSubject removes prefixes like Re:, Fwd:, etc. from a subject
func NormalizeSubject(subject string) string {
	re := regexp.MustCompile(`(?i)^(re|fwd|fw|aw|ant|sv|vs|r){0,1}(\s*:|\s*\[\d+\]\s*:)*\s*`)
	normalized := re.ReplaceAllString(subject, "")

	normalized = strings.TrimSpace(normalized)

	return normalized
}

func NormalizeMessageID(messageID string) string {
	messageID = strings.TrimSpace(messageID)
	messageID = strings.TrimPrefix(messageID, "<")
	messageID = strings.TrimSuffix(messageID, ">")
	return messageID
}

func IsStringInSlice(s string, slice []string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
