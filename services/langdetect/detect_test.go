package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mdx2025/emailbot-backend/internal/enum"
)

func TestDetect_Spanish(t *testing.T) {
	text := "Hola, necesito información sobre su producto. ¿Cuánto cuesta el diseño web?"

	assert.Equal(t, enum.LanguageSpanish, Detect(text))
}

func TestDetect_English(t *testing.T) {
	text := "Hi, I need information about your product. How much does web design cost?"

	assert.Equal(t, enum.LanguageEnglish, Detect(text))
}

func TestDetect_EmptyDefaultsToEnglish(t *testing.T) {
	assert.Equal(t, enum.LanguageEnglish, Detect(""))
	assert.Equal(t, enum.LanguageEnglish, Detect("   \n\t"))
}

func TestDetect_AmbiguousDefaultsToEnglish(t *testing.T) {
	// No markers of either language.
	assert.Equal(t, enum.LanguageEnglish, Detect("xyzzy 12345 !!!"))
}

func TestDetect_SharedWordsDoNotCrossMatch(t *testing.T) {
	// "producto" must not score as the English marker "product".
	text := "Me interesa el producto, quiero más información por favor. Gracias."

	assert.Equal(t, enum.LanguageSpanish, Detect(text))
}

func TestDetect_InvertedPunctuationIsSpanishSignal(t *testing.T) {
	text := "Buenos días, ¿puede ayudarme con una tienda online para mi empresa?"

	assert.Equal(t, enum.LanguageSpanish, Detect(text))
}

func TestHasAnySignal(t *testing.T) {
	assert.True(t, HasAnySignal("hello, can you help"))
	assert.True(t, HasAnySignal("hola, necesito ayuda"))
	assert.False(t, HasAnySignal("bonjour, je voudrais un renseignement s'il vous plait"))
	assert.False(t, HasAnySignal(""))
}
