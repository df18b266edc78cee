package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FallbackCategory is the bucket for records whose category is absent, null or empty
const FallbackCategory = "uncategorized"

// Command is a single record of the command reference database.
// Only Name, Category and Description are interpreted; every other field is
// carried untouched in Raw and re-emitted with its original key order.
type Command struct {
	Name        string
	Category    string
	Description string
	Raw         json.RawMessage
}

// Key returns the grouping key for the record
func (c Command) Key() string {
	if c.Category == "" {
		return FallbackCategory
	}
	return c.Category
}

// MarshalJSON returns the original record bytes
func (c Command) MarshalJSON() ([]byte, error) {
	if len(c.Raw) == 0 {
		return json.Marshal(struct {
			Name        string `json:"name"`
			Category    string `json:"category,omitempty"`
			Description string `json:"description,omitempty"`
		}{c.Name, c.Category, c.Description})
	}
	return c.Raw, nil
}

// UnmarshalJSON keeps a copy of the raw record and extracts the fields the
// partitioner needs. A null category decodes to the empty string.
func (c *Command) UnmarshalJSON(data []byte) error {
	var head struct {
		Name        *string `json:"name"`
		Category    *string `json:"category"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	*c = Command{Raw: append(json.RawMessage(nil), data...)}
	if head.Name != nil {
		c.Name = *head.Name
	}
	if head.Category != nil {
		c.Category = *head.Category
	}
	if head.Description != nil {
		c.Description = *head.Description
	}
	return nil
}

// RelatedCommand links a command to another one in the database
type RelatedCommand struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Combination is a multi-command recipe shown alongside a command
type Combination struct {
	Scenario    string `json:"scenario,omitempty"`
	Title       string `json:"title,omitempty"`
	Label       string `json:"label,omitempty"`
	Commands    string `json:"commands"`
	Explanation string `json:"explanation,omitempty"`
}

// Entry is the typed, read-only view of a Command used by lookup and search
type Entry struct {
	Name                string            `json:"name"`
	StandsFor           string            `json:"standsFor,omitempty"`
	Description         string            `json:"description,omitempty"`
	Category            string            `json:"category,omitempty"`
	Safety              string            `json:"safety,omitempty"`
	SyntaxPattern       string            `json:"syntaxPattern,omitempty"`
	ManPageURL          string            `json:"manPageUrl,omitempty"`
	Examples            []string          `json:"examples,omitempty"`
	Platform            []string          `json:"platform,omitempty"`
	Prerequisites       Prerequisites     `json:"prerequisites,omitempty"`
	Warnings            []string          `json:"warnings,omitempty"`
	KeyFeatures         []string          `json:"keyFeatures,omitempty"`
	RelatedCommands     []RelatedCommand  `json:"relatedCommands,omitempty"`
	CommandCombinations []Combination     `json:"commandCombinations,omitempty"`
	DistroNotes         map[string]string `json:"distroNotes,omitempty"`
}

// Prerequisites lists what a reader should know before running a command.
// Records store it either as a list of strings or as an object of named
// strings (foundational_concepts, prior_commands, ...); objects decode to
// their values in key order.
type Prerequisites []string

// UnmarshalJSON accepts a list of strings, an object of strings or null
func (p *Prerequisites) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*p = list
		return nil
	}

	var named map[string]string
	if err := json.Unmarshal(data, &named); err != nil {
		return fmt.Errorf("prerequisites must be a list or an object of strings")
	}
	keys := make([]string, 0, len(named))
	for key := range named {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make(Prerequisites, 0, len(keys))
	for _, key := range keys {
		values = append(values, named[key])
	}
	*p = values
	return nil
}

// Decode returns the typed view of the record. Payload fields whose shape
// does not fit the view are left empty; the record itself is never changed.
func (c Command) Decode() (Entry, error) {
	var e Entry
	if len(c.Raw) == 0 {
		return Entry{Name: c.Name, Category: c.Category, Description: c.Description}, nil
	}
	if err := json.Unmarshal(c.Raw, &e); err == nil {
		return e, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Raw, &fields); err != nil {
		return Entry{}, fmt.Errorf("failed to decode command %q: %w", c.Name, err)
	}
	e = Entry{Name: c.Name, Category: c.Category, Description: c.Description}
	targets := map[string]any{
		"standsFor":           &e.StandsFor,
		"safety":              &e.Safety,
		"syntaxPattern":       &e.SyntaxPattern,
		"manPageUrl":          &e.ManPageURL,
		"examples":            &e.Examples,
		"platform":            &e.Platform,
		"prerequisites":       &e.Prerequisites,
		"warnings":            &e.Warnings,
		"keyFeatures":         &e.KeyFeatures,
		"relatedCommands":     &e.RelatedCommands,
		"commandCombinations": &e.CommandCombinations,
		"distroNotes":         &e.DistroNotes,
	}
	for key, target := range targets {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		// A mismatched field may be partially filled before the error
		if err := json.Unmarshal(raw, target); err != nil {
			resetField(target)
		}
	}
	return e, nil
}

func resetField(target any) {
	switch v := target.(type) {
	case *string:
		*v = ""
	case *[]string:
		*v = nil
	case *Prerequisites:
		*v = nil
	case *[]RelatedCommand:
		*v = nil
	case *[]Combination:
		*v = nil
	case *map[string]string:
		*v = nil
	}
}

// DecodeAll decodes every record, stopping at the first failure
func DecodeAll(cmds []Command) ([]Entry, error) {
	entries := make([]Entry, 0, len(cmds))
	for i, cmd := range cmds {
		e, err := cmd.Decode()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
