package agronomy

// MessageKey names a user-facing message.
type MessageKey int

const (
	MsgInternal MessageKey = iota
	MsgNoProviders
	MsgServiceUnavailable
	MsgImageRequired
	MsgMessagesRequired
	MsgInvalidBody
)

var messages = map[Language]map[MessageKey]string{
	French: {
		MsgInternal:           "Une erreur inattendue s'est produite. Veuillez réessayer.",
		MsgNoProviders:        "Aucun fournisseur d'IA n'est configuré.",
		MsgServiceUnavailable: "Le service d'analyse est temporairement indisponible. Veuillez réessayer plus tard.",
		MsgImageRequired:      "Une image est requise.",
		MsgMessagesRequired:   "Au moins un message est requis.",
		MsgInvalidBody:        "Corps de requête invalide.",
	},
	English: {
		MsgInternal:           "An unexpected error occurred. Please try again.",
		MsgNoProviders:        "No AI provider is configured.",
		MsgServiceUnavailable: "The analysis service is temporarily unavailable. Please try again later.",
		MsgImageRequired:      "An image is required.",
		MsgMessagesRequired:   "At least one message is required.",
		MsgInvalidBody:        "Invalid request body.",
	},
}

// Message returns the localized text for key, in French when lang is unknown.
func Message(lang Language, key MessageKey) string {
	if m, ok := messages[lang]; ok {
		return m[key]
	}
	return messages[French][key]
}
