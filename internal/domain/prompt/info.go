package prompt

type RoleBadge struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type ToolBadge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Info summarizes which customizations are active in a config.
type Info struct {
	UsingCustomSystemPrompt bool        `json:"usingCustomSystemPrompt"`
	CustomPromptCount       int         `json:"customPromptCount"`
	ActiveRoles             []RoleBadge `json:"activeRoles"`
	ActiveTools             []ToolBadge `json:"activeTools"`
	TotalEnhancements       int         `json:"totalEnhancements"`
}

func Describe(cfg Config) Info {
	info := Info{
		UsingCustomSystemPrompt: cfg.SystemPrompt.Enabled && !cfg.SystemPrompt.IsDefault,
		ActiveRoles:             []RoleBadge{},
		ActiveTools:             []ToolBadge{},
	}
	for _, p := range cfg.CustomPrompts {
		if p.Enabled {
			info.CustomPromptCount++
		}
	}
	for _, r := range cfg.Roles {
		if r.Enabled {
			info.ActiveRoles = append(info.ActiveRoles, RoleBadge{Name: r.Name, Avatar: r.Avatar})
		}
	}
	for _, t := range cfg.Tools {
		if t.Enabled {
			info.ActiveTools = append(info.ActiveTools, ToolBadge{Name: t.Name, Description: t.Description})
		}
	}
	info.TotalEnhancements = info.CustomPromptCount + len(info.ActiveRoles) + len(info.ActiveTools)
	return info
}

// HasEnhancements reports whether anything beyond the default template is active.
func (i Info) HasEnhancements() bool {
	return i.TotalEnhancements > 0 || i.UsingCustomSystemPrompt
}
