package analysis

import (
	"encoding/json"
	"strings"

	"robotadvisor/internal/core"
)

const stageOptions = "option_generation"

const optionsKey = `"automation_options"`

type optionsDocument struct {
	AutomationOptions json.RawMessage `json:"automation_options"`
}

// ParseOptions decodes generated automation options. The response is cleaned
// first and anything removed or suspicious is reported. When the document does
// not parse as a whole, every complete option object inside the
// automation_options array is salvaged and parsed on its own. Malformed
// objects are dropped with a diagnostic; an unusable response yields no
// options rather than an error.
func ParseOptions(raw string) ([]core.AutomationOption, core.Diagnostics) {
	var diags core.Diagnostics
	if strings.TrimSpace(raw) == "" {
		diags.Warnf(stageOptions, "", "option generator returned no text")
		return []core.AutomationOption{}, diags
	}
	text, cleanDiags := CleanOptionsResponse(raw)
	diags = append(diags, cleanDiags...)

	var doc optionsDocument
	err := json.Unmarshal([]byte(text), &doc)
	if err == nil {
		return decodeOptionList(doc.AutomationOptions, diags)
	}
	diags.Warnf(stageOptions, "", "full document parse failed, salvaging options: %v", err)

	keyAt := strings.Index(text, optionsKey)
	if keyAt < 0 {
		diags.Warnf(stageOptions, "", "response has no automation_options key")
		return []core.AutomationOption{}, diags
	}
	arrayAt := strings.Index(text[keyAt:], "[")
	if arrayAt < 0 {
		diags.Warnf(stageOptions, "", "automation_options array not found")
		return []core.AutomationOption{}, diags
	}

	options := []core.AutomationOption{}
	for _, obj := range completeObjects(text[keyAt+arrayAt+1:]) {
		var opt core.AutomationOption
		if err := json.Unmarshal([]byte(obj), &opt); err != nil {
			diags.Warnf(stageOptions, "", "discarded malformed option: %v", err)
			continue
		}
		options = append(options, opt)
	}
	diags.Infof(stageOptions, "", "salvaged %d option(s) from truncated response", len(options))
	return normalizeOptions(options), diags
}

// completeObjects returns each balanced top-level {...} in s, stopping at the
// ']' that closes the enclosing array or at the first object that never
// closes. Braces inside JSON strings are ignored.
func completeObjects(s string) []string {
	var objects []string
	i := 0
	for {
		start := strings.IndexAny(s[i:], "{]")
		if start < 0 {
			return objects
		}
		start += i
		if s[start] == ']' {
			return objects
		}
		end := matchBrace(s, start)
		if end < 0 {
			return objects
		}
		objects = append(objects, s[start:end+1])
		i = end + 1
	}
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func decodeOptionList(raw json.RawMessage, diags core.Diagnostics) ([]core.AutomationOption, core.Diagnostics) {
	options := []core.AutomationOption{}
	if len(raw) == 0 || string(raw) == "null" {
		diags.Warnf(stageOptions, "", "response has no automation_options")
		return options, diags
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		diags.Warnf(stageOptions, "", "automation_options is not a list: %v", err)
		return options, diags
	}
	for i, item := range items {
		var opt core.AutomationOption
		if err := json.Unmarshal(item, &opt); err != nil {
			diags.Warnf(stageOptions, "", "discarded malformed option at index %d: %v", i, err)
			continue
		}
		options = append(options, opt)
	}
	return normalizeOptions(options), diags
}

func normalizeOptions(options []core.AutomationOption) []core.AutomationOption {
	for i := range options {
		if options[i].Assignments == nil {
			options[i].Assignments = []core.Assignment{}
		}
		if options[i].UnassignedHumanTasks == nil {
			options[i].UnassignedHumanTasks = []core.UnassignedTask{}
		}
	}
	return options
}

// largeResponseChars is where responses start to approach the output token limit.
const largeResponseChars = 7500

// CleanOptionsResponse strips fences, leading prose and trailing text from an
// options response. Removals are reported as info, signs of truncation as
// warnings.
func CleanOptionsResponse(raw string) (string, core.Diagnostics) {
	var diags core.Diagnostics
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimPrefix(text, "json")
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
		diags.Infof(stageOptions, "", "removed markdown fence from response")
	}
	if first := strings.Index(text, "{"); first > 0 {
		text = strings.TrimSpace(text[first:])
		diags.Infof(stageOptions, "", "removed explanatory text before JSON")
	}
	if last := strings.LastIndex(text, "}"); last >= 0 && last < len(text)-1 {
		// An unclosed tail is truncation, not trailing prose.
		if balanced(text[:last+1]) {
			text = strings.TrimSpace(text[:last+1])
			diags.Infof(stageOptions, "", "removed trailing text after JSON")
		}
	}

	if !strings.HasSuffix(text, "}") {
		diags.Warnf(stageOptions, "", "response may be truncated: does not end with '}'")
	}
	if !balanced(text) {
		diags.Warnf(stageOptions, "", "response may be truncated: unbalanced braces or brackets")
	}
	if len(text) > largeResponseChars {
		diags.Warnf(stageOptions, "", "response is near the output token limit (%d chars)", len(text))
	}
	return text, diags
}

func balanced(text string) bool {
	return strings.Count(text, "{") == strings.Count(text, "}") &&
		strings.Count(text, "[") == strings.Count(text, "]")
}
