package langdetect

import (
	"regexp"
	"strings"

	"github.com/Mdx2025/emailbot-backend/internal/enum"
)

// Weighted lexical scoring over curated marker words plus structural
// patterns. Deliberately a heuristic, not a classifier: no probability is
// reported and there is no "unknown" outcome.

const patternWeight = 0.3

var englishMarkers = map[string]struct{}{
	"the": {}, "and": {}, "you": {}, "your": {}, "hello": {}, "hi": {},
	"thanks": {}, "thank": {}, "please": {}, "need": {}, "want": {},
	"would": {}, "could": {}, "about": {}, "information": {}, "price": {},
	"product": {}, "service": {}, "help": {}, "looking": {}, "interested": {},
	"we": {}, "our": {}, "what": {}, "how": {}, "when": {}, "can": {},
	"is": {}, "are": {}, "have": {}, "get": {},
}

var spanishMarkers = map[string]struct{}{
	"hola": {}, "gracias": {}, "por": {}, "favor": {}, "necesito": {},
	"quiero": {}, "información": {}, "precio": {}, "producto": {},
	"servicio": {}, "ayuda": {}, "sobre": {}, "para": {}, "este": {},
	"esta": {}, "nosotros": {}, "nuestra": {}, "qué": {}, "cómo": {},
	"cuándo": {}, "cuánto": {}, "dónde": {}, "puede": {}, "tengo": {},
	"estoy": {}, "interesado": {}, "empresa": {}, "más": {}, "también": {},
	"buenos": {}, "buenas": {}, "días": {}, "tardes": {}, "saludos": {},
	"señor": {}, "usted": {},
}

var englishPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(a|an|the)\s+[a-z]+`),       // article + noun
	regexp.MustCompile(`(?i)\b(of|in|with|for|from)\s+`),  // prepositions
	regexp.MustCompile(`(?i)[a-z]+(ing|tion|ness|ly)\b`),  // characteristic suffixes
	regexp.MustCompile(`(?i)\b(what|how|when|where|why)\b`), // question words
}

var spanishPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(el|la|los|las|un|una)\s+[a-záéíóúñ]+`), // article + noun
	regexp.MustCompile(`(?i)\b(de|en|con|desde|hasta)\s+`),           // prepositions
	regexp.MustCompile(`(?i)[a-záéíóúñ]+(ción|dad|mente|ría)\b`),     // characteristic suffixes
	regexp.MustCompile(`(?i)(¿|¡|\b(qué|cómo|cuándo|dónde|cuánto)\b)`), // question markers
}

var wordSplitter = regexp.MustCompile(`[\p{L}]+`)

// Detect maps free text to a two-way language tag. Ambiguous, empty or
// tied input defaults to English. Side-effect free.
func Detect(text string) enum.Language {
	if strings.TrimSpace(text) == "" {
		return enum.LanguageEnglish
	}

	lower := strings.ToLower(text)

	var englishScore, spanishScore float64
	for _, word := range wordSplitter.FindAllString(lower, -1) {
		if _, ok := englishMarkers[word]; ok {
			englishScore++
		}
		if _, ok := spanishMarkers[word]; ok {
			spanishScore++
		}
	}

	for _, pattern := range englishPatterns {
		englishScore += patternWeight * float64(len(pattern.FindAllString(lower, -1)))
	}
	for _, pattern := range spanishPatterns {
		spanishScore += patternWeight * float64(len(pattern.FindAllString(lower, -1)))
	}

	if spanishScore > englishScore {
		return enum.LanguageSpanish
	}
	return enum.LanguageEnglish
}

// HasAnySignal reports whether the text carried any marker of either
// language. Used by the analyzer to flag messages in a third language.
func HasAnySignal(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range wordSplitter.FindAllString(lower, -1) {
		if _, ok := englishMarkers[word]; ok {
			return true
		}
		if _, ok := spanishMarkers[word]; ok {
			return true
		}
	}
	return false
}
