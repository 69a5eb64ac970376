package analyzer

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"

	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
	"github.com/Mdx2025/emailbot-backend/services/langdetect"
)

const shortMessageThreshold = 50

type analyzerService struct {
	repositories *repository.Repositories
}

func NewAnalyzerService(repos *repository.Repositories) interfaces.AnalyzerService {
	return &analyzerService{
		repositories: repos,
	}
}

// Analyze derives classification and structured extraction from a normalized
// inbound message. Pure over the message content.
func (s *analyzerService) Analyze(message *dto.InboundMessage) dto.Analysis {
	body := strings.TrimSpace(message.Body)
	lowerBody := strings.ToLower(body)
	lowerSubject := strings.ToLower(message.Subject)
	combined := lowerSubject + "\n" + lowerBody

	analysis := dto.Analysis{
		Language:        langdetect.Detect(body),
		ServiceMentions: extractServiceMentions(combined),
		BudgetMention:   firstKeywordMatch(combined, budgetKeywords),
		TimelineMention: firstKeywordMatch(combined, timelineKeywords),
		QuestionCount:   countQuestions(body),
	}

	analysis.MessageType = classifyMessageType(message, body, combined, analysis)
	analysis.Sentiment = classifySentiment(combined)
	analysis.Urgency = classifyUrgency(combined)
	analysis.SLABucket = selectSLABucket(analysis)
	analysis.RecommendedAction = recommendAction(analysis)

	return analysis
}

// classifyMessageType applies the ordered pattern rules; the first match
// wins.
func classifyMessageType(message *dto.InboundMessage, body, combined string, analysis dto.Analysis) enum.MessageType {
	if isAutomatedNotification(message, combined) {
		return enum.MessageNonActionable
	}
	if containsAny(combined, studentKeywords) {
		return enum.MessageStudent
	}
	if containsAny(combined, channelSwitchKeywords) {
		return enum.MessageChannelSwitch
	}
	if containsAny(combined, sampleRequestKeywords) {
		return enum.MessageSampleRequest
	}
	if len(body) < shortMessageThreshold {
		return enum.MessageShort
	}
	if len(analysis.ServiceMentions) == 0 && !hasCompanySignal(message, combined) {
		return enum.MessageVague
	}
	if !langdetect.HasAnySignal(body) {
		return enum.MessageOtherLanguage
	}
	return enum.MessageLead
}

func isAutomatedNotification(message *dto.InboundMessage, combined string) bool {
	lowerFrom := strings.ToLower(message.FromAddress)
	for _, fragment := range automatedSenderFragments {
		if strings.Contains(lowerFrom, fragment) {
			return true
		}
	}
	for _, fragment := range automatedSubjectFragments {
		if strings.Contains(strings.ToLower(message.Subject), fragment) {
			return true
		}
	}
	return isAutoResponse(message.Headers)
}

func hasCompanySignal(message *dto.InboundMessage, combined string) bool {
	if containsAny(combined, companySignalKeywords) {
		return true
	}
	// A signature line with the sender's domain counts when it is not a
	// consumer mail domain.
	domain := utils.ExtractDomainFromEmail(message.FromAddress)
	if domain == "" || utils.IsStringInSlice(domain, freeMailDomains) {
		return false
	}
	return strings.Contains(combined, domain)
}

var freeMailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "icloud.com",
	"aol.com", "protonmail.com",
}

func extractServiceMentions(text string) []string {
	var mentions []string
	for _, service := range serviceVocabulary {
		if strings.Contains(text, service) {
			mentions = append(mentions, service)
		}
	}
	return mentions
}

// firstKeywordMatch returns the raw matched substring, not a parsed value.
func firstKeywordMatch(text string, keywords []string) string {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return keyword
		}
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	return firstKeywordMatch(text, keywords) != ""
}

// countQuestions counts non-trivial '?'-delimited segments.
func countQuestions(body string) int {
	count := 0
	segments := strings.Split(body, "?")
	// The final segment trails the last '?', so it is not a question.
	for _, segment := range segments[:len(segments)-1] {
		if len(strings.TrimSpace(segment)) > 3 {
			count++
		}
	}
	return count
}

func classifySentiment(text string) enum.Sentiment {
	positive := containsAny(text, positiveKeywords)
	negative := containsAny(text, negativeKeywords)
	negated := containsAny(text, negationCues)

	// Positive wins unless negation cues are present.
	if positive && !negated {
		return enum.SentimentPositive
	}
	if negative || negated {
		return enum.SentimentNegative
	}
	return enum.SentimentNeutral
}

func classifyUrgency(text string) enum.Urgency {
	if containsAny(text, highUrgencyKeywords) {
		return enum.UrgencyHigh
	}
	if containsAny(text, mediumUrgencyKeywords) {
		return enum.UrgencyMedium
	}
	return enum.UrgencyNormal
}

// selectSLABucket picks the response-time tier by first matching
// urgency/value-signal rule.
func selectSLABucket(analysis dto.Analysis) enum.SLABucket {
	switch {
	case analysis.Urgency == enum.UrgencyHigh:
		return enum.SLABucket1h
	case analysis.HasBudgetMention():
		return enum.SLABucket4h
	case analysis.Urgency == enum.UrgencyMedium || analysis.QuestionCount > 0:
		return enum.SLABucket8h
	default:
		return enum.SLABucket24h
	}
}

func recommendAction(analysis dto.Analysis) string {
	switch analysis.MessageType {
	case enum.MessageNonActionable:
		return "no_action"
	case enum.MessageStudent:
		return "polite_decline"
	case enum.MessageChannelSwitch:
		return "schedule_call"
	case enum.MessageSampleRequest:
		return "send_portfolio"
	case enum.MessageShort, enum.MessageVague:
		return "request_details"
	case enum.MessageOtherLanguage:
		return "manual_review"
	default:
		if analysis.HasBudgetMention() {
			return "reply_with_quote"
		}
		return "reply_with_questions"
	}
}

// Eligibility reports the reasons a message should be skipped. Issues are
// returned as a list, not raised; the caller decides policy.
func (s *analyzerService) Eligibility(ctx context.Context, message *dto.InboundMessage) ([]dto.EligibilityIssue, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "analyzerService.Eligibility")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	var issues []dto.EligibilityIssue

	processed, err := s.repositories.ProcessedMessageRepository.Exists(ctx, message.ExternalID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if processed {
		issues = append(issues, dto.IssueAlreadyProcessed)
	}

	if !message.LatestInThread {
		issues = append(issues, dto.IssueNotLatestInThread)
	}

	if isAutoResponse(message.Headers) {
		issues = append(issues, dto.IssueAutoResponse)
	}

	return issues, nil
}

// isAutoResponse checks the header signals autoresponders set.
func isAutoResponse(headers map[string]string) bool {
	if headers == nil {
		return false
	}

	if v, ok := headers["Auto-Submitted"]; ok && v != "" && !strings.EqualFold(v, "no") {
		return true
	}
	if _, ok := headers["X-Autoreply"]; ok {
		return true
	}
	if _, ok := headers["X-Autoresponse"]; ok {
		return true
	}
	if v, ok := headers["Precedence"]; ok {
		lower := strings.ToLower(v)
		if lower == "auto_reply" || lower == "bulk" || lower == "junk" {
			return true
		}
	}
	return false
}
