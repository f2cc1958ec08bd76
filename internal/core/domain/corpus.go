package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RoleType classifies the speaker of a message independent of its display name.
// Multi-user or multi-character conversations still use one of these types.
type RoleType string

// Available role types.
const (
	RoleSystem    RoleType = "system"
	RoleUser      RoleType = "user"
	RoleAssistant RoleType = "assistant"
)

// IsValid returns true if the role type is recognised.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// KnowledgeKey names a block of knowledge text attached to a message.
type KnowledgeKey string

// Available knowledge keys.
const (
	// KnowledgeUserDescription is a short description of the user.
	KnowledgeUserDescription KnowledgeKey = "user_description"

	// KnowledgeDatetimeInfo is the current date and time.
	KnowledgeDatetimeInfo KnowledgeKey = "datetime_info"

	// KnowledgeBackgroundInfo is setting or world background.
	KnowledgeBackgroundInfo KnowledgeKey = "background_info"

	// KnowledgeOther is anything not covered above.
	KnowledgeOther KnowledgeKey = "other"
)

// IsValid returns true if the knowledge key is part of the fixed vocabulary.
func (k KnowledgeKey) IsValid() bool {
	switch k {
	case KnowledgeUserDescription, KnowledgeDatetimeInfo, KnowledgeBackgroundInfo, KnowledgeOther:
		return true
	default:
		return false
	}
}

// Role identifies who produced a message.
type Role struct {
	Type RoleType `json:"role_type"`

	// Name is the optional display name. nil and "" are distinct:
	// nil means the message carries no display name at all.
	Name *string `json:"name"`
}

// NamedRole returns a role with a display name.
func NamedRole(t RoleType, name string) Role {
	return Role{Type: t, Name: &name}
}

// DisplayName returns the display name and whether one is set.
func (r Role) DisplayName() (string, bool) {
	if r.Name == nil {
		return "", false
	}
	return *r.Name, true
}

// Message is a single turn of a conversation record.
type Message struct {
	Role      Role                    `json:"role"`
	Content   string                  `json:"content"`
	Knowledge map[KnowledgeKey]string `json:"knowledge"`
}

// Corpus is a validated conversation record ready to be stored.
// Build it with NewCorpus or ParseCorpus; the zero value is not validated.
type Corpus struct {
	Data []Message `json:"data"`

	// RoleNameMap maps display names to canonical role ids.
	// It is derived data and never serialized.
	RoleNameMap map[string]string `json:"-"`
}

// NewCorpus validates and normalises messages into a Corpus.
// Display names, content and knowledge values are trimmed. If roleNameMap
// is empty the canonical role table is computed from the messages.
func NewCorpus(messages []Message, roleNameMap map[string]string) (*Corpus, error) {
	data := make([]Message, len(messages))
	for i, msg := range messages {
		normalised, err := normaliseMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		data[i] = normalised
	}

	c := &Corpus{Data: data}
	if len(roleNameMap) > 0 {
		c.RoleNameMap = make(map[string]string, len(roleNameMap))
		for k, v := range roleNameMap {
			c.RoleNameMap[k] = v
		}
	} else {
		c.RoleNameMap = CanonicalRoleNames(data)
	}
	return c, nil
}

// ParseCorpus decodes a JSON record of the form {"data": [...]} and validates it.
// An optional "role_name_map" object is honoured as a supplied table.
func ParseCorpus(raw []byte) (*Corpus, error) {
	var in struct {
		Data        []Message         `json:"data"`
		RoleNameMap map[string]string `json:"role_name_map"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode corpus: %v: %w", err, ErrInvalidInput)
	}
	return NewCorpus(in.Data, in.RoleNameMap)
}

// CanonicalRole returns the canonical id for a display name.
func (c *Corpus) CanonicalRole(name string) (string, bool) {
	id, ok := c.RoleNameMap[name]
	return id, ok
}

// MarshalCanonical returns the compact JSON form used for storage and hashing.
// Field order is fixed by the struct layout, knowledge keys are sorted and
// HTML characters are not escaped. The result has no trailing newline.
func (c *Corpus) MarshalCanonical() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode corpus: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// CanonicalRoleNames derives the display name table for a message sequence.
//
// Distinct display names are collected per role type in first-seen order and
// numbered from 1, so two users "Alice" and "Bob" become "user1" and "user2".
// A role type with exactly one distinct name maps it to the bare type label.
func CanonicalRoleNames(messages []Message) map[string]string {
	result := make(map[string]string)
	pools := make(map[RoleType][]string)
	seen := make(map[RoleType]map[string]bool)
	var order []RoleType

	for _, msg := range messages {
		t := msg.Role.Type
		if _, ok := seen[t]; !ok {
			seen[t] = make(map[string]bool)
			order = append(order, t)
		}
		name, ok := msg.Role.DisplayName()
		if !ok || seen[t][name] {
			continue
		}
		seen[t][name] = true
		pools[t] = append(pools[t], name)
		result[name] = fmt.Sprintf("%s%d", t, len(pools[t]))
	}

	for _, t := range order {
		if names := pools[t]; len(names) == 1 {
			result[names[0]] = string(t)
		}
	}
	return result
}

func normaliseMessage(msg Message) (Message, error) {
	if !msg.Role.Type.IsValid() {
		return Message{}, fmt.Errorf("unknown role type %q: %w", msg.Role.Type, ErrInvalidInput)
	}

	out := Message{
		Role:      Role{Type: msg.Role.Type},
		Content:   strings.TrimSpace(msg.Content),
		Knowledge: make(map[KnowledgeKey]string, len(msg.Knowledge)),
	}
	if name, ok := msg.Role.DisplayName(); ok {
		trimmed := strings.TrimSpace(name)
		out.Role.Name = &trimmed
	}
	for k, v := range msg.Knowledge {
		if !k.IsValid() {
			return Message{}, fmt.Errorf("unknown knowledge key %q: %w", k, ErrInvalidInput)
		}
		out.Knowledge[k] = strings.TrimSpace(v)
	}
	return out, nil
}
