// Package prefs implements the user preference model: canonicalizing the
// list-valued columns coming back from the store, parsing inbound command
// messages, and applying command actions to a preference list.
package prefs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Domain identifies which preference field a command targets. The constants
// double as the store column names.
type Domain string

const (
	DomainTopics      Domain = "topics"
	DomainSources     Domain = "sources"
	DomainUpdateTimes Domain = "update_times"
	DomainUnknown     Domain = ""
)

// Action is the operation a command performs on a preference list.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionReset  Action = "reset"
	ActionList   Action = "list"
)

// Effect tells the caller what side effect an applied action requires.
type Effect int

const (
	// EffectPersist means the new list must be written back to the store
	// before replying.
	EffectPersist Effect = iota
	// EffectReplyOnly means the store is untouched and only a reply showing
	// the current list is produced.
	EffectReplyOnly
)

// Sigil is the leading character marking a message as a command.
const Sigil = "!"

// Command is a parsed preference command. Keyword preserves the raw command
// token the user typed (e.g. "updatetime") for use in replies.
type Command struct {
	Domain  Domain
	Keyword string
	Action  Action
	Values  []string
}

// Normalize turns whatever shape a preference column comes back in into a
// clean list of strings. Stored values have been observed as native JSON
// arrays, JSON-encoded array strings, bare scalars and the literal "[]"
// artifact; all of them degrade to a best-effort list. Entries are trimmed
// and empty ones dropped. Order is preserved and duplicates are kept; dedup
// happens in Apply on add.
func Normalize(value any) []string {
	if value == nil {
		return []string{}
	}

	switch v := value.(type) {
	case []string:
		return clean(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, coerce(item))
		}
		return clean(items)
	case json.RawMessage:
		return normalizeRaw(v)
	case []byte:
		return normalizeRaw(v)
	case string:
		return normalizeString(v)
	default:
		return clean([]string{coerce(v)})
	}
}

// normalizeRaw handles an undecoded JSON column value.
func normalizeRaw(raw []byte) []string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []string{}
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err == nil {
		return Normalize(items)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return normalizeString(s)
	}

	// Not an array and not a string: treat the raw text as one scalar.
	return clean([]string{trimmed})
}

// normalizeString handles a column stored as text: it may be a JSON-encoded
// array; anything else, including text parsing to a JSON non-list, counts
// as a single entry.
func normalizeString(s string) []string {
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		if items, ok := parsed.([]any); ok {
			return Normalize(items)
		}
	}
	return clean([]string{s})
}

func coerce(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || item == "[]" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Parse turns a raw inbound message into a Command, or nil when the text
// does not start with the command sigil. Parsing is purely syntactic: an
// unrecognized command token yields DomainUnknown and the caller decides
// what to do with it.
func Parse(text string) *Command {
	if !strings.HasPrefix(text, Sigil) {
		return nil
	}

	head, valuePart, hasValues := strings.Cut(strings.TrimPrefix(text, Sigil), ":")

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return &Command{Domain: DomainUnknown, Action: ActionList, Values: []string{}}
	}

	keyword := fields[0]
	action := ActionList
	if len(fields) > 1 {
		action = Action(fields[1])
	}

	values := []string{}
	if hasValues {
		for _, v := range strings.Split(valuePart, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			values = append(values, v)
		}
	}

	return &Command{
		Domain:  domainFor(keyword),
		Keyword: keyword,
		Action:  action,
		Values:  values,
	}
}

func domainFor(keyword string) Domain {
	switch keyword {
	case "topics":
		return DomainTopics
	case "sources":
		return DomainSources
	case "updatetime":
		return DomainUpdateTimes
	default:
		return DomainUnknown
	}
}

// Apply runs an action against the current preference list and returns the
// resulting list plus the side effect the caller must perform. Unknown
// actions are treated as list: no mutation, reply only.
func Apply(current []string, action Action, values []string) ([]string, Effect) {
	switch action {
	case ActionAdd:
		return union(current, values), EffectPersist
	case ActionRemove:
		return subtract(current, values), EffectPersist
	case ActionReset:
		return []string{}, EffectPersist
	default:
		return current, EffectReplyOnly
	}
}

// union merges values into current, dropping duplicates while preserving
// first-seen order.
func union(current, values []string) []string {
	seen := make(map[string]bool, len(current)+len(values))
	out := make([]string, 0, len(current)+len(values))
	for _, v := range append(append([]string{}, current...), values...) {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// subtract removes every entry of current equal to a member of values.
func subtract(current, values []string) []string {
	drop := make(map[string]bool, len(values))
	for _, v := range values {
		drop[v] = true
	}
	out := make([]string, 0, len(current))
	for _, v := range current {
		if drop[v] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// JoinOrDefault renders a preference list for a reply, falling back to the
// given placeholder when the list is empty.
func JoinOrDefault(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
