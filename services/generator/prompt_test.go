package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mdx2025/emailbot-backend/internal/enum"
)

func TestNormalizeOriginal_ContactFormReflow(t *testing.T) {
	body := "You received a new submission.\n\n" +
		"Name: Maria Lopez\n" +
		"Email: maria@acme.io\n" +
		"Service: web design\n" +
		"Message: We need a new site for our company.\n"

	normalized := normalizeOriginal(body)

	assert.Equal(t,
		"Name: Maria Lopez\nEmail: maria@acme.io\nService: web design\nMessage: We need a new site for our company.",
		normalized)
}

func TestNormalizeOriginal_SpanishFormLabels(t *testing.T) {
	body := "Nombre: Carlos\nEmpresa: Reformas CR\nMensaje: Necesito una página web.\n"

	normalized := normalizeOriginal(body)

	assert.Contains(t, normalized, "Nombre: Carlos")
	assert.Contains(t, normalized, "Mensaje: Necesito una página web.")
}

func TestNormalizeOriginal_FreeFormPassesThrough(t *testing.T) {
	body := "Hello,\n\n\n\nwe need a website.\n\nThanks"

	normalized := normalizeOriginal(body)

	// No labeled lines, so only blank runs are collapsed.
	assert.Equal(t, "Hello,\n\nwe need a website.\n\nThanks", normalized)
}

func TestClientCompany(t *testing.T) {
	assert.Equal(t, "Acme Studios", clientCompany("Name: Maria\nCompany: Acme Studios\nMessage: hi"))
	assert.Equal(t, "Estudio Sol", clientCompany("Nombre: Maria\nEmpresa: Estudio Sol\nMensaje: hola"))
	assert.Empty(t, clientCompany("Hello, we need a website for our startup."))
}

func TestBuildPrompt_LanguageConstraintComesFirst(t *testing.T) {
	message := leadMessage()
	analysis := leadAnalysis()
	analysis.Language = enum.LanguageSpanish
	analysis.QuestionCount = 2

	prompt := buildPrompt(message, analysis)

	constraint := strings.Index(prompt, "reply in Spanish")
	original := strings.Index(prompt, "Original message")
	assert.Greater(t, constraint, -1)
	assert.Greater(t, original, constraint)
	assert.Contains(t, prompt, "asked 2 question(s)")
	assert.Contains(t, prompt, "do not invent pricing or commitments")
}

func TestFollowupBody(t *testing.T) {
	first := FollowupBody(enum.LanguageEnglish, 1, "Maria", "your website project")
	assert.Contains(t, first, "Hi Maria,")
	assert.Contains(t, first, "follow up on my previous email about your website project")

	last := FollowupBody(enum.LanguageEnglish, 3, "Maria", "your website project")
	assert.Contains(t, last, "my last note")

	spanish := FollowupBody(enum.LanguageSpanish, 2, "Carlos", "su tienda online")
	assert.Contains(t, spanish, "Hola Carlos:")
	assert.Contains(t, spanish, "su tienda online")
}

func TestFollowupBody_Defaults(t *testing.T) {
	body := FollowupBody(enum.LanguageEnglish, 1, "", "")
	assert.Contains(t, body, "Hi there,")
	assert.Contains(t, body, "your inquiry")

	spanish := FollowupBody(enum.LanguageSpanish, 1, "", "")
	assert.Contains(t, spanish, "Hola buenas:")
	assert.Contains(t, spanish, "su consulta")
}

func TestFollowupBody_OutOfRangeSlotUsesFinalTemplate(t *testing.T) {
	body := FollowupBody(enum.LanguageEnglish, 9, "Maria", "your website project")

	assert.Contains(t, body, "my last note")
}
