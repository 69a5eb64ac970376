package generator

import (
	"fmt"

	"github.com/Mdx2025/emailbot-backend/internal/enum"
)

// Static reply bodies. These cover the pre-generation non-actionable
// short-circuit and the three follow-up slots; primary generation failures
// never fall back to them. Both languages keep the same structure so a
// reviewer can diff them side by side.

var nonActionableNotices = map[enum.Language]string{
	enum.LanguageEnglish: "This message was identified as an automated notification and does not require a reply. No action is needed.",
	enum.LanguageSpanish: "Este mensaje fue identificado como una notificación automática y no requiere respuesta. No se necesita ninguna acción.",
}

func NonActionableNotice(language enum.Language) string {
	if notice, ok := nonActionableNotices[language]; ok {
		return notice
	}
	return nonActionableNotices[enum.LanguageEnglish]
}

// Follow-up copy escalates gently across slots and closes the loop on the
// third touch.
var followupTemplates = map[enum.Language][]string{
	enum.LanguageEnglish: {
		"Hi %s,\n\nI wanted to follow up on my previous email about %s. I know things get busy, so I thought a quick nudge might help. Is this still something you are looking into?\n\nBest regards",
		"Hi %s,\n\nJust checking in once more regarding %s. If timing is the issue, I am happy to work around your schedule, and if priorities have shifted, a short reply telling me so is completely fine.\n\nBest regards",
		"Hi %s,\n\nThis will be my last note about %s. If the project is no longer on your radar, no reply is needed and I will close the thread on my side. Should things pick up again later, my inbox is always open.\n\nAll the best",
	},
	enum.LanguageSpanish: {
		"Hola %s:\n\nQuería retomar mi correo anterior sobre %s. Sé que el día a día se complica, así que pensé que un breve recordatorio podría ayudar. ¿Sigue siendo algo que les interesa?\n\nUn saludo",
		"Hola %s:\n\nVuelvo a escribirle sobre %s. Si el problema es el momento, me adapto sin inconveniente a su agenda, y si las prioridades han cambiado, con una respuesta breve indicándolo es más que suficiente.\n\nUn saludo",
		"Hola %s:\n\nEste será mi último mensaje sobre %s. Si el proyecto ya no está entre sus planes, no hace falta que responda y cerraré el hilo por mi parte. Si más adelante retoman el tema, quedo a su disposición.\n\nUn cordial saludo",
	},
}

const (
	defaultTopicEnglish = "your inquiry"
	defaultTopicSpanish = "su consulta"

	defaultGreetingEnglish = "there"
	defaultGreetingSpanish = "buenas"
)

// FollowupBody renders the template for slot 1..3. Unknown slots fall back to
// the final template so a bad number never produces an empty body.
func FollowupBody(language enum.Language, number int, clientName, topic string) string {
	templates, ok := followupTemplates[language]
	if !ok {
		templates = followupTemplates[enum.LanguageEnglish]
	}

	index := number - 1
	if index < 0 || index >= len(templates) {
		index = len(templates) - 1
	}

	if clientName == "" {
		clientName = defaultGreetingEnglish
		if language == enum.LanguageSpanish {
			clientName = defaultGreetingSpanish
		}
	}
	if topic == "" {
		topic = defaultTopicEnglish
		if language == enum.LanguageSpanish {
			topic = defaultTopicSpanish
		}
	}

	return fmt.Sprintf(templates[index], clientName, topic)
}
