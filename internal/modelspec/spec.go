package modelspec

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec is a parsed model specification. Constructed only by Parse and
// never mutated afterwards.
type Spec struct {
	Provider ProviderKey
	Model    string

	// ThinkingBudget is the reasoning-token budget in tokens (0 = unset).
	// Only set for providers whose capability declares thinking support.
	ThinkingBudget int
}

// Parse turns a raw specification string into a Spec.
//
// Format: provider:model[:budget] where provider is an alias or long name
// (case-insensitive) and budget is an integer, optionally with a "k"
// suffix meaning x1024.
//
// Providers without thinking support treat every segment after the
// provider as part of the model name, so Ollama tags like
// "l:llama3.2:1b" parse whole. For thinking-capable providers a third
// segment must be a valid budget.
func Parse(raw string) (Spec, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || parts[1] == "" {
		return Spec{}, &MalformedSpecError{Raw: raw}
	}

	prov, ok := Lookup(parts[0])
	if !ok {
		return Spec{}, &UnknownProviderError{Token: parts[0]}
	}

	spec := Spec{Provider: prov.Key}

	if prov.SupportsThinking && len(parts) >= 3 {
		budget, err := parseBudget(parts[len(parts)-1])
		if err != nil {
			return Spec{}, &InvalidThinkingBudgetError{Raw: raw, Segment: parts[len(parts)-1]}
		}
		spec.ThinkingBudget = budget
		spec.Model = strings.Join(parts[1:len(parts)-1], ":")
	} else {
		spec.Model = strings.Join(parts[1:], ":")
	}

	if spec.Model == "" {
		return Spec{}, &MalformedSpecError{Raw: raw}
	}
	return spec, nil
}

// ParseAll parses a list of raw specs, failing on the first bad entry.
func ParseAll(raws []string) ([]Spec, error) {
	specs := make([]Spec, 0, len(raws))
	for _, raw := range raws {
		s, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// parseBudget accepts "4096" or "4k" (k = x1024).
func parseBudget(s string) (int, error) {
	mult := 1
	if strings.HasSuffix(strings.ToLower(s), "k") {
		mult = 1024
		s = s[:len(s)-1]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid budget %q", s)
	}
	return n * mult, nil
}

// String serializes the spec in canonical alias form, e.g.
// "a:claude-3-7-sonnet-20250219:4k". Parsing the result yields an equal
// Spec.
func (s Spec) String() string {
	base := Capabilities(s.Provider).Alias + ":" + s.Model
	if s.ThinkingBudget == 0 {
		return base
	}
	if s.ThinkingBudget%1024 == 0 {
		return fmt.Sprintf("%s:%dk", base, s.ThinkingBudget/1024)
	}
	return fmt.Sprintf("%s:%d", base, s.ThinkingBudget)
}

// FileLabel returns a filename-safe label for the spec. Two specs that
// differ by provider or budget never collide even when the model name
// matches.
func (s Spec) FileLabel() string {
	label := Capabilities(s.Provider).Alias + "_" + sanitize(s.Model)
	if s.ThinkingBudget > 0 {
		label += "_" + strconv.Itoa(s.ThinkingBudget)
	}
	return label
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
