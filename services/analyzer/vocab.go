package analyzer

// Fixed lexicons and pattern tables for the heuristic classifier layer.
// These are deliberately low-precision keyword tables, kept in one place so
// they can be tuned without touching rule logic.

var serviceVocabulary = []string{
	"web design", "website", "seo", "marketing", "branding", "ecommerce",
	"online store", "app development", "mobile app", "consulting",
	"automation", "integration", "maintenance",
	"diseño web", "página web", "sitio web", "posicionamiento",
	"tienda online", "aplicación", "consultoría", "mantenimiento",
}

var budgetKeywords = []string{
	"$", "€", "usd", "eur", "budget", "price", "pricing", "cost", "quote",
	"invest", "presupuesto", "precio", "costo", "coste", "cotización",
	"invertir",
}

var timelineKeywords = []string{
	"asap", "deadline", "urgent", "by next week", "by next month",
	"this week", "this month", "in two weeks", "launch date",
	"cuanto antes", "urgente", "plazo", "esta semana", "este mes",
	"fecha de entrega",
}

var positiveKeywords = []string{
	"great", "love", "excited", "interested", "perfect", "awesome",
	"excelente", "encanta", "interesado", "interesada", "perfecto",
	"genial",
}

var negativeKeywords = []string{
	"disappointed", "unhappy", "complaint", "terrible", "frustrated",
	"decepcionado", "queja", "molesto", "frustrado", "terrible",
}

var negationCues = []string{
	"not interested", "no longer", "don't want", "do not want",
	"no me interesa", "ya no", "no quiero",
}

var highUrgencyKeywords = []string{
	"urgent", "asap", "immediately", "right away", "emergency",
	"urgente", "inmediato", "inmediatamente", "cuanto antes", "emergencia",
}

var mediumUrgencyKeywords = []string{
	"soon", "quickly", "this week", "shortly",
	"pronto", "rápido", "esta semana",
}

var studentKeywords = []string{
	"student", "university", "thesis", "homework", "assignment", "school project",
	"estudiante", "universidad", "tesis", "tarea", "trabajo escolar",
}

var channelSwitchKeywords = []string{
	"call me", "phone call", "give me a call", "whatsapp", "reach me at",
	"llámame", "llamada", "por teléfono", "mi número",
}

var sampleRequestKeywords = []string{
	"sample", "demo", "free trial", "trial", "portfolio",
	"muestra", "demostración", "prueba gratis", "portafolio",
}

var automatedSenderFragments = []string{
	"noreply", "no-reply", "no_reply", "donotreply", "mailer-daemon",
	"notifications@", "billing@", "invoice@", "postmaster",
}

var automatedSubjectFragments = []string{
	"invoice", "receipt", "payment confirmation", "newsletter",
	"delivery status", "out of office", "auto-reply", "automatic reply",
	"factura", "recibo", "respuesta automática",
}

var companySignalKeywords = []string{
	"company", "business", "agency", "startup", "our team", "inc", "ltd", "llc",
	"empresa", "negocio", "agencia", "nuestro equipo",
}
