package prompt

// Drafts are the inputs of the add operations. The store assigns ID and Order.

type CustomPromptDraft struct {
	Name     string   `json:"name"`
	Content  string   `json:"content"`
	Enabled  bool     `json:"enabled"`
	Category Category `json:"category"`
}

type ToolDraft struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Command     string                `json:"command"`
	Parameters  map[string]ParamValue `json:"parameters"`
	Enabled     bool                  `json:"enabled"`
}

type RoleDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	Enabled     bool   `json:"enabled"`
	Avatar      string `json:"avatar,omitempty"`
}

// Patches carry partial updates; nil fields are left unchanged.

type SystemPromptPatch struct {
	Name      *string `json:"name,omitempty"`
	Content   *string `json:"content,omitempty"`
	Enabled   *bool   `json:"enabled,omitempty"`
	IsDefault *bool   `json:"isDefault,omitempty"`
}

type CustomPromptPatch struct {
	Name     *string   `json:"name,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Enabled  *bool     `json:"enabled,omitempty"`
	Order    *int      `json:"order,omitempty"`
	Category *Category `json:"category,omitempty"`
}

type ToolPatch struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Command     *string                `json:"command,omitempty"`
	Parameters  *map[string]ParamValue `json:"parameters,omitempty"`
	Enabled     *bool                  `json:"enabled,omitempty"`
}

type RolePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Prompt      *string `json:"prompt,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (p SystemPromptPatch) Apply(sp SystemPrompt) SystemPrompt {
	set(&sp.Name, p.Name)
	set(&sp.Content, p.Content)
	set(&sp.Enabled, p.Enabled)
	set(&sp.IsDefault, p.IsDefault)
	return sp
}

func (p CustomPromptPatch) Apply(cp CustomPrompt) CustomPrompt {
	set(&cp.Name, p.Name)
	set(&cp.Content, p.Content)
	set(&cp.Enabled, p.Enabled)
	set(&cp.Order, p.Order)
	set(&cp.Category, p.Category)
	return cp
}

func (p ToolPatch) Apply(t Tool) Tool {
	set(&t.Name, p.Name)
	set(&t.Description, p.Description)
	set(&t.Command, p.Command)
	set(&t.Parameters, p.Parameters)
	set(&t.Enabled, p.Enabled)
	return t
}

func (p RolePatch) Apply(r Role) Role {
	set(&r.Name, p.Name)
	set(&r.Description, p.Description)
	set(&r.Prompt, p.Prompt)
	set(&r.Enabled, p.Enabled)
	set(&r.Avatar, p.Avatar)
	return r
}

// TogglesEnabled reports whether the patch changes an enabled flag. Such
// updates must be durable before dependent actions run.
func (p SystemPromptPatch) TogglesEnabled() bool { return p.Enabled != nil }
func (p CustomPromptPatch) TogglesEnabled() bool { return p.Enabled != nil }
func (p ToolPatch) TogglesEnabled() bool         { return p.Enabled != nil }
func (p RolePatch) TogglesEnabled() bool         { return p.Enabled != nil }

// The functions below are pure: they return a new Config and never modify
// the one passed in.

func UpdateSystemPrompt(c Config, p SystemPromptPatch) Config {
	out := c.Clone()
	out.SystemPrompt = p.Apply(out.SystemPrompt)
	return out
}

// AddCustomPrompt appends a prompt with Order equal to the current count.
// Orders are never renumbered, so gaps remain after deletions.
func AddCustomPrompt(c Config, d CustomPromptDraft, id string) (Config, CustomPrompt) {
	out := c.Clone()
	cp := CustomPrompt{
		ID:       id,
		Name:     d.Name,
		Content:  d.Content,
		Enabled:  d.Enabled,
		Order:    len(out.CustomPrompts),
		Category: d.Category,
	}
	out.CustomPrompts = append(out.CustomPrompts, cp)
	return out, cp
}

// UpdateCustomPrompt returns the new config and whether id matched.
func UpdateCustomPrompt(c Config, id string, p CustomPromptPatch) (Config, bool) {
	out := c.Clone()
	found := false
	for i := range out.CustomPrompts {
		if out.CustomPrompts[i].ID == id {
			out.CustomPrompts[i] = p.Apply(out.CustomPrompts[i])
			found = true
		}
	}
	return out, found
}

func DeleteCustomPrompt(c Config, id string) (Config, bool) {
	out := c.Clone()
	kept := out.CustomPrompts[:0]
	for _, cp := range out.CustomPrompts {
		if cp.ID != id {
			kept = append(kept, cp)
		}
	}
	found := len(kept) != len(out.CustomPrompts)
	out.CustomPrompts = kept
	return out, found
}

func AddTool(c Config, d ToolDraft, id string) (Config, Tool) {
	out := c.Clone()
	t := Tool{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Command:     d.Command,
		Parameters:  make(map[string]ParamValue, len(d.Parameters)),
		Enabled:     d.Enabled,
	}
	for k, v := range d.Parameters {
		t.Parameters[k] = v
	}
	out.Tools = append(out.Tools, t)
	return out, t
}

func UpdateTool(c Config, id string, p ToolPatch) (Config, bool) {
	out := c.Clone()
	found := false
	for i := range out.Tools {
		if out.Tools[i].ID == id {
			out.Tools[i] = p.Apply(out.Tools[i])
			found = true
		}
	}
	return out, found
}

func DeleteTool(c Config, id string) (Config, bool) {
	out := c.Clone()
	kept := out.Tools[:0]
	for _, t := range out.Tools {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	found := len(kept) != len(out.Tools)
	out.Tools = kept
	return out, found
}

func AddRole(c Config, d RoleDraft, id string) (Config, Role) {
	out := c.Clone()
	r := Role{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Prompt:      d.Prompt,
		Enabled:     d.Enabled,
		Avatar:      d.Avatar,
	}
	out.Roles = append(out.Roles, r)
	return out, r
}

func UpdateRole(c Config, id string, p RolePatch) (Config, bool) {
	out := c.Clone()
	found := false
	for i := range out.Roles {
		if out.Roles[i].ID == id {
			out.Roles[i] = p.Apply(out.Roles[i])
			found = true
		}
	}
	return out, found
}

func DeleteRole(c Config, id string) (Config, bool) {
	out := c.Clone()
	kept := out.Roles[:0]
	for _, r := range out.Roles {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	found := len(kept) != len(out.Roles)
	out.Roles = kept
	return out, found
}
