package engine

// Keyword vocabularies, all in normalized (lower-case, accent-stripped) form.
// Priority intents are evaluated top-to-bottom in the order declared in
// priorityIntents (engine.go), mirroring the override precedence.

var (
	// initialGreetings resets an empty or brand-new session to the welcome
	// step. Matching is exact on the whole utterance; greetings embedded in
	// longer text never reset a conversation in progress.
	initialGreetings = []string{"oi", "ola", "bom dia", "boa tarde", "boa noite"}

	// greetingVocabulary is the broader set used to reject greetings typed
	// where a name or a yes/no answer is expected.
	greetingVocabulary = []string{
		"oi", "ola", "oi!", "ola!",
		"bom dia", "boa tarde", "boa noite",
		"hey", "ei", "opa", "e ai",
		"alo", "hello", "hi",
	}

	humanHandoffKeywords = []string{
		"#solicitar_humano#",
		"responsavel",
		"dono",
		"dona",
		"atendente",
		"humano",
		"pessoa",
		"alguem",
		"proprietario",
		"proprietaria",
		"gerente",
	}

	// closingVocabulary detects a polite wrap-up after a confirmed booking.
	closingVocabulary = []string{
		"nao", "obrigado", "obrigada", "valeu", "vlw",
		"ta bom", "beleza", "so isso", "ok",
	}

	serviceTopicKeywords = []string{
		"servico", "servicos", "lista",
		"quais servico", "que servico", "tem quais", "oferece",
	}

	cancelKeywords = []string{"cancelar", "desmarcar"}

	farewellKeywords = []string{"tchau", "ate logo"}

	addressKeywords   = []string{"endereco", "local", "onde", "localizacao"}
	phoneKeywords     = []string{"telefone", "contato", "whatsapp", "ligar"}
	instagramKeywords = []string{
		"instagram", "insta", "rede social", "redes sociais",
		"facebook", "social", "fotos", "portfolio",
	}

	engagementAffirmatives = []string{"sim", "claro", "quero", "pode", "gostaria", "ok"}
	engagementNegatives    = []string{"nao", "agora nao", "depois"}

	welcomeAffirmatives = []string{
		"sim", "claro", "quero", "pode", "gostaria", "lista",
		"sim por favor", "com certeza", "aceito",
	}
	welcomeNegatives = []string{"nao", "agora nao", "depois", "talvez depois"}

	confirmAffirmatives = []string{"sim", "confirmar", "ok", "pode"}
	confirmNegatives    = []string{"nao", "cancelar"}
)

// protectedStatuses are the identity-critical steps where neither the
// service-topic shortcut nor opportunistic service detection may fire, so a
// yes/no answer or a typed name is never hijacked.
var protectedStatuses = map[Status]bool{
	StatusAwaitingWelcomeResponse: true,
	StatusAwaitingName:            true,
	StatusAwaitingConfirmation:    true,
}

// IsGreeting reports whether the utterance is exactly a greeting, not part of
// a longer sentence.
func IsGreeting(text string) bool {
	return equalsAny(Normalize(text), greetingVocabulary)
}
