package prompt

import (
	"sort"
	"strings"
)

// Section labels are part of the output contract; downstream consumers match on them.
const (
	LabelRoles          = "--- RÔLES ACTIFS ---"
	LabelContext        = "--- CONTEXTE ADDITIONNEL ---"
	LabelSuffix         = "--- INSTRUCTIONS FINALES ---"
	LabelTools          = "--- OUTILS DISPONIBLES ---"
	LabelCustomizations = "--- PERSONNALISATIONS ACTIVES ---"
)

const blockSeparator = "\n\n"

// Compose assembles the final prompt text from cfg. The order is fixed:
// prefix fragments, base block, roles, context fragments, suffix fragments,
// tools. Empty sections are omitted and the rest are joined by a blank line.
func Compose(cfg Config) string {
	base := ""
	if cfg.SystemPrompt.Enabled {
		base = cfg.SystemPrompt.Content
	}
	return strings.Join(assemble(cfg, base), blockSeparator)
}

// LegacyLookup renders the legacy template used as base block when no
// custom system prompt is active.
type LegacyLookup func() (string, error)

// ComposeEnhanced builds the base block from the legacy template when the
// system prompt is the untouched default or disabled, then layers the
// custom prompts, roles and tools on top. Augmentation lines that already
// appear in the base block are dropped.
//
// A lookup failure falls back to the raw system prompt content; the text is
// still returned together with the lookup error.
func ComposeEnhanced(cfg Config, lookup LegacyLookup) (string, error) {
	var (
		base      string
		lookupErr error
	)
	sp := cfg.SystemPrompt
	if sp.Enabled && !sp.IsDefault {
		base = sp.Content
	} else if lookup == nil {
		base = sp.Content
	} else if text, err := lookup(); err != nil {
		base = sp.Content
		lookupErr = err
	} else {
		base = text
	}

	var blocks []string
	blocks = appendBlock(blocks, base)

	placed := make(map[string]struct{})
	for _, line := range strings.Split(base, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			placed[trimmed] = struct{}{}
		}
	}

	augmentation := strings.Join(assemble(cfg, ""), blockSeparator)
	var lines []string
	for _, line := range strings.Split(augmentation, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if _, dup := placed[trimmed]; dup {
			continue
		}
		lines = append(lines, line)
	}
	blocks = appendSection(blocks, LabelCustomizations, lines)

	return strings.Join(blocks, blockSeparator), lookupErr
}

func assemble(cfg Config, base string) []string {
	prefix, context, suffix := partition(cfg.CustomPrompts)

	var blocks []string
	for _, p := range prefix {
		blocks = appendBlock(blocks, p.Content)
	}
	blocks = appendBlock(blocks, base)
	blocks = appendSection(blocks, LabelRoles, roleLines(cfg.Roles))
	blocks = appendSection(blocks, LabelContext, contents(context))
	blocks = appendSection(blocks, LabelSuffix, contents(suffix))
	blocks = appendSection(blocks, LabelTools, toolLines(cfg.Tools))
	return blocks
}

// partition splits the enabled prompts by category, each sorted by Order.
// Prompts sharing an Order keep their relative position.
func partition(prompts []CustomPrompt) (prefix, context, suffix []CustomPrompt) {
	enabled := make([]CustomPrompt, 0, len(prompts))
	for _, p := range prompts {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool { return enabled[i].Order < enabled[j].Order })

	for _, p := range enabled {
		switch p.Category {
		case CategoryPrefix:
			prefix = append(prefix, p)
		case CategoryContext:
			context = append(context, p)
		case CategorySuffix:
			suffix = append(suffix, p)
		}
	}
	return prefix, context, suffix
}

func contents(prompts []CustomPrompt) []string {
	var out []string
	for _, p := range prompts {
		if strings.TrimSpace(p.Content) != "" {
			out = append(out, p.Content)
		}
	}
	return out
}

func roleLines(roles []Role) []string {
	var out []string
	for _, r := range roles {
		if r.Enabled {
			out = append(out, r.Name+": "+r.Prompt)
		}
	}
	return out
}

func toolLines(tools []Tool) []string {
	var out []string
	for _, t := range tools {
		if t.Enabled {
			out = append(out, t.Name+": "+t.Description)
		}
	}
	return out
}

func appendBlock(blocks []string, text string) []string {
	if strings.TrimSpace(text) == "" {
		return blocks
	}
	return append(blocks, text)
}

func appendSection(blocks []string, label string, lines []string) []string {
	if len(lines) == 0 {
		return blocks
	}
	return append(blocks, label+"\n"+strings.Join(lines, "\n"))
}
