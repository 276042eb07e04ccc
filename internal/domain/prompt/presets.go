package prompt

// RolePreset is a predefined role users can add with one action.
type RolePreset struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	Avatar      string `json:"avatar"`
}

// Draft converts the preset into an enabled role draft.
func (p RolePreset) Draft() RoleDraft {
	return RoleDraft{
		Name:        p.Name,
		Description: p.Description,
		Prompt:      p.Prompt,
		Avatar:      p.Avatar,
		Enabled:     true,
	}
}

// ToolPreset is a predefined tool users can add with one action.
type ToolPreset struct {
	Key         string                `json:"key"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Command     string                `json:"command"`
	Parameters  map[string]ParamValue `json:"parameters"`
}

func (p ToolPreset) Draft() ToolDraft {
	params := make(map[string]ParamValue, len(p.Parameters))
	for k, v := range p.Parameters {
		params[k] = v
	}
	return ToolDraft{
		Name:        p.Name,
		Description: p.Description,
		Command:     p.Command,
		Parameters:  params,
		Enabled:     true,
	}
}

var RolePresets = []RolePreset{
	{
		Key:         "senior-developer",
		Name:        "Développeur Senior",
		Description: "Expert en développement logiciel avec 10+ années d'expérience",
		Prompt:      "Vous êtes un développeur senior avec plus de 10 ans d'expérience. Concentrez-vous sur les bonnes pratiques, l'architecture propre, la performance et la maintenabilité. Fournissez toujours du code de qualité production avec des explications détaillées.",
		Avatar:      "👨‍💻",
	},
	{
		Key:         "architect",
		Name:        "Architecte Logiciel",
		Description: "Spécialiste en architecture de systèmes complexes",
		Prompt:      "Vous êtes un architecte logiciel expert. Concentrez-vous sur la conception de systèmes scalables, les patterns architecturaux, les décisions techniques stratégiques et l'optimisation des performances à grande échelle.",
		Avatar:      "🏗️",
	},
	{
		Key:         "devops",
		Name:        "Expert DevOps",
		Description: "Spécialiste en déploiement et infrastructure",
		Prompt:      "Vous êtes un expert DevOps. Concentrez-vous sur l'automatisation, CI/CD, conteneurisation, orchestration, monitoring et optimisation des infrastructures cloud.",
		Avatar:      "⚙️",
	},
	{
		Key:         "security",
		Name:        "Expert Sécurité",
		Description: "Spécialiste en cybersécurité et sécurité applicative",
		Prompt:      "Vous êtes un expert en cybersécurité. Concentrez-vous sur l'identification des vulnérabilités, les bonnes pratiques de sécurité, l'authentification, l'autorisation et la protection des données.",
		Avatar:      "🔒",
	},
	{
		Key:         "product-manager",
		Name:        "Product Manager",
		Description: "Expert en gestion de produit et stratégie",
		Prompt:      "Vous êtes un Product Manager expérimenté. Concentrez-vous sur la stratégie produit, l'analyse des besoins utilisateurs, la roadmap, les métriques et l'optimisation de l'expérience utilisateur.",
		Avatar:      "📊",
	},
	{
		Key:         "ux-designer",
		Name:        "Designer UX/UI",
		Description: "Expert en expérience et interface utilisateur",
		Prompt:      "Vous êtes un designer UX/UI expert. Concentrez-vous sur l'expérience utilisateur, l'accessibilité, les principes de design, les systèmes de design et l'optimisation des interfaces.",
		Avatar:      "🎨",
	},
}

var ToolPresets = []ToolPreset{
	{
		Key:         "analyze-code",
		Name:        "Analyse de Code",
		Description: "Analyse approfondie du code pour détecter les problèmes et suggérer des améliorations",
		Command:     "analyze-code",
		Parameters: map[string]ParamValue{
			"checkQuality":     BoolParam(true),
			"checkSecurity":    BoolParam(true),
			"checkPerformance": BoolParam(true),
		},
	},
	{
		Key:         "generate-tests",
		Name:        "Générateur de Tests",
		Description: "Génère automatiquement des tests unitaires pour le code fourni",
		Command:     "generate-tests",
		Parameters: map[string]ParamValue{
			"framework": StringParam("jest"),
			"coverage":  StringParam("high"),
		},
	},
	{
		Key:         "generate-docs",
		Name:        "Documentation Auto",
		Description: "Génère automatiquement la documentation du code",
		Command:     "generate-docs",
		Parameters: map[string]ParamValue{
			"format":          StringParam("markdown"),
			"includeExamples": BoolParam(true),
		},
	},
	{
		Key:         "optimize-performance",
		Name:        "Optimiseur de Performance",
		Description: "Analyse et optimise les performances du code",
		Command:     "optimize-performance",
		Parameters: map[string]ParamValue{
			"target":        StringParam("speed"),
			"includeMemory": BoolParam(true),
		},
	},
	{
		Key:         "security-check",
		Name:        "Validateur de Sécurité",
		Description: "Vérifie les vulnérabilités de sécurité dans le code",
		Command:     "security-check",
		Parameters: map[string]ParamValue{
			"level":               StringParam("strict"),
			"includeDependencies": BoolParam(true),
		},
	},
}

// FindRolePreset looks a role preset up by key.
func FindRolePreset(key string) (RolePreset, bool) {
	for _, p := range RolePresets {
		if p.Key == key {
			return p, true
		}
	}
	return RolePreset{}, false
}

func FindToolPreset(key string) (ToolPreset, bool) {
	for _, p := range ToolPresets {
		if p.Key == key {
			return p, true
		}
	}
	return ToolPreset{}, false
}
