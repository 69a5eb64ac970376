package utils

import "strings"

func ExtractDomainFromEmail(email string) string {
	if email == "" {
		return ""
	}

	email = strings.TrimSpace(email)

	// Handle potential angle brackets in email (e.g., "Name <email@domain.com>")
	if strings.Contains(email, "<") && strings.Contains(email, ">") {
		startIdx := strings.LastIndex(email, "<") + 1
		endIdx := strings.LastIndex(email, ">")
		if startIdx > 0 && endIdx > startIdx {
			email = email[startIdx:endIdx]
		}
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(parts[1]))
}

// ExtractAddressFromHeader pulls the bare address out of a From header value
// like `"Jane Doe" <jane@acme.com>`.
func ExtractAddressFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}

	if strings.Contains(header, "<") && strings.Contains(header, ">") {
		startIdx := strings.LastIndex(header, "<") + 1
		endIdx := strings.LastIndex(header, ">")
		if startIdx > 0 && endIdx > startIdx {
			return strings.TrimSpace(header[startIdx:endIdx])
		}
	}

	return header
}

// ExtractNameFromHeader pulls the display name out of a From header value,
// returning "" when the header carries only an address.
func ExtractNameFromHeader(header string) string {
	header = strings.TrimSpace(header)
	idx := strings.Index(header, "<")
	if idx <= 0 {
		return ""
	}
	name := strings.TrimSpace(header[:idx])
	return strings.Trim(name, `"`)
}
