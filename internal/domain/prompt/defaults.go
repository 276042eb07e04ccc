package prompt

const defaultSystemPromptContent = `Vous êtes Bolt, un assistant IA expert et un développeur senior exceptionnel avec une vaste connaissance de multiples langages de programmation, frameworks et bonnes pratiques.

Vous devez toujours:
- Être précis et concis dans vos réponses
- Fournir du code de haute qualité
- Expliquer votre raisonnement quand nécessaire
- Respecter les bonnes pratiques de développement`

// DefaultSystemPrompt is the built-in base block used on first start and after a reset.
func DefaultSystemPrompt() SystemPrompt {
	return SystemPrompt{
		ID:        "default",
		Name:      "Prompt Système par Défaut",
		Content:   defaultSystemPromptContent,
		Enabled:   true,
		IsDefault: true,
	}
}

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() Config {
	return Config{
		SystemPrompt:  DefaultSystemPrompt(),
		CustomPrompts: []CustomPrompt{},
		Tools:         DefaultTools(),
		Roles:         DefaultRoles(),
	}
}

func DefaultTools() []Tool {
	return []Tool{
		{
			ID:          "code-review",
			Name:        "Revue de Code",
			Description: "Analyse et améliore le code fourni",
			Command:     "review-code",
			Parameters: map[string]ParamValue{
				"focus":       StringParam("quality"),
				"suggestions": BoolParam(true),
			},
		},
		{
			ID:          "debug-helper",
			Name:        "Assistant Debug",
			Description: "Aide à identifier et résoudre les bugs",
			Command:     "debug-assist",
			Parameters: map[string]ParamValue{
				"verbose":     BoolParam(true),
				"suggestions": BoolParam(true),
			},
		},
	}
}

func DefaultRoles() []Role {
	return []Role{
		{
			ID:          "developer",
			Name:        "Développeur Senior",
			Description: "Expert en développement logiciel",
			Prompt:      "Vous êtes un développeur senior avec 10+ années d'expérience. Concentrez-vous sur les bonnes pratiques, l'architecture et la performance.",
		},
		{
			ID:          "architect",
			Name:        "Architecte Logiciel",
			Description: "Spécialiste en architecture système",
			Prompt:      "Vous êtes un architecte logiciel expert. Concentrez-vous sur la conception de systèmes scalables, les patterns architecturaux et les décisions techniques stratégiques.",
		},
	}
}
