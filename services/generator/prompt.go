package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
)

// Contact-form relays collapse the submission into "Label: value" lines,
// often mangled by the form plugin. contactFormField matches the labels the
// common form builders emit, in both languages.
var contactFormField = regexp.MustCompile(`(?im)^[\s>*-]*(name|full name|nombre|email|e-mail|correo|phone|tel[eé]fono|company|empresa|website|sitio web|service|servicio|subject|asunto|budget|presupuesto|message|mensaje|comments?|comentarios?)\s*[:：]\s*(.*)$`)

// normalizeOriginal re-flows contact-form submissions into a clean labeled
// block; free-form emails pass through with whitespace collapsed.
func normalizeOriginal(body string) string {
	matches := contactFormField.FindAllStringSubmatch(body, -1)
	if len(matches) < 2 {
		return collapseBlankLines(body)
	}

	var block strings.Builder
	for _, match := range matches {
		label := capitalize(strings.ToLower(strings.TrimSpace(match[1])))
		value := strings.TrimSpace(match[2])
		if value == "" {
			continue
		}
		block.WriteString(label)
		block.WriteString(": ")
		block.WriteString(value)
		block.WriteString("\n")
	}
	if block.Len() == 0 {
		return collapseBlankLines(body)
	}
	return strings.TrimRight(block.String(), "\n")
}

var companyField = regexp.MustCompile(`(?im)^[\s>*-]*(?:company|empresa)\s*[:：]\s*(.+)$`)

// clientCompany pulls the company out of a contact-form submission. Free-form
// emails yield "".
func clientCompany(body string) string {
	match := companyField.FindStringSubmatch(body)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

func collapseBlankLines(body string) string {
	return strings.TrimSpace(blankRuns.ReplaceAllString(body, "\n\n"))
}

func languageName(language enum.Language) string {
	if language == enum.LanguageSpanish {
		return "Spanish"
	}
	return "English"
}

// buildPrompt assembles the primary generation prompt. The same-language
// constraint comes first so it survives prompt truncation by the provider.
func buildPrompt(message *dto.InboundMessage, analysis dto.Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are drafting a reply to a sales lead on behalf of a digital services studio.\n")
	fmt.Fprintf(&b, "Hard constraint: reply in %s, the same language as the original message.\n\n", languageName(analysis.Language))

	fmt.Fprintf(&b, "Original message from %s <%s>, subject %q:\n", message.FromName, message.FromAddress, message.Subject)
	fmt.Fprintf(&b, "---\n%s\n---\n\n", normalizeOriginal(message.Body))

	fmt.Fprintf(&b, "Context from triage:\n")
	fmt.Fprintf(&b, "- message type: %s\n", analysis.MessageType)
	if len(analysis.ServiceMentions) > 0 {
		fmt.Fprintf(&b, "- services mentioned: %s\n", strings.Join(analysis.ServiceMentions, ", "))
	}
	if analysis.BudgetMention != "" {
		fmt.Fprintf(&b, "- budget signal: %q\n", analysis.BudgetMention)
	}
	if analysis.TimelineMention != "" {
		fmt.Fprintf(&b, "- timeline signal: %q\n", analysis.TimelineMention)
	}
	if analysis.QuestionCount > 0 {
		fmt.Fprintf(&b, "- the sender asked %d question(s); answer each one\n", analysis.QuestionCount)
	}
	fmt.Fprintf(&b, "- recommended action: %s\n\n", analysis.RecommendedAction)

	fmt.Fprintf(&b, "Write the reply body only, no subject line. Reference at least two concrete details from the original message. Avoid generic filler and do not invent pricing or commitments.")

	return b.String()
}

// buildRegeneratePrompt folds the instruction mode into a lighter prompt over
// the stored original message and the current draft content.
func buildRegeneratePrompt(original, currentContent string, language enum.Language, mode enum.InstructionMode) string {
	var instruction string
	switch mode {
	case enum.InstructionShorten:
		instruction = "Rewrite the reply to be significantly shorter while keeping every commitment and answer intact."
	case enum.InstructionExpand:
		instruction = "Expand the reply with more specifics drawn from the original message; do not pad with filler."
	default:
		instruction = "Rewrite the reply with a fresh structure and wording."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hard constraint: reply in %s, the same language as the original message.\n\n", languageName(language))
	fmt.Fprintf(&b, "Original message:\n---\n%s\n---\n\n", normalizeOriginal(original))
	fmt.Fprintf(&b, "Current draft reply:\n---\n%s\n---\n\n", strings.TrimSpace(currentContent))
	fmt.Fprintf(&b, "%s Reference at least two concrete details from the original message. Write the reply body only.", instruction)

	return b.String()
}
