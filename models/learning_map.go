package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Level is a proficiency level. Nodes may additionally use LevelMixed.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelMixed        Level = "mixed"
)

// ParseTargetLevel maps a requested level onto a supported target level.
// Missing or unrecognised values fall back to beginner.
func ParseTargetLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelIntermediate:
		return LevelIntermediate
	case LevelAdvanced:
		return LevelAdvanced
	default:
		return LevelBeginner
	}
}

// ResourceType classifies a learning resource.
type ResourceType string

const (
	ResourceArticle ResourceType = "article"
	ResourceVideo   ResourceType = "video"
	ResourceBook    ResourceType = "book"
	ResourceCourse  ResourceType = "course"
	ResourceOther   ResourceType = "other"
)

// NormalizeResourceType returns the recognised type for s, or article.
func NormalizeResourceType(s ResourceType) ResourceType {
	switch t := ResourceType(strings.ToLower(strings.TrimSpace(string(s)))); t {
	case ResourceArticle, ResourceVideo, ResourceBook, ResourceCourse, ResourceOther:
		return t
	default:
		return ResourceArticle
	}
}

// Resource is a single learning link. Values decoded from model output are
// untrusted until they pass validation.
type Resource struct {
	Type  ResourceType `json:"type"`
	Title string       `json:"title"`
	URL   string       `json:"url"`
}

// UnmarshalJSON decodes leniently: a non-object becomes an empty resource
// and scalar fields are stringified.
func (r *Resource) UnmarshalJSON(data []byte) error {
	*r = Resource{}
	fields, ok := objectFields(data)
	if !ok {
		return nil
	}
	r.Type = ResourceType(lenientString(fields["type"]))
	r.Title = lenientString(fields["title"])
	r.URL = lenientString(fields["url"])
	return nil
}

// LearningNode is one topic in the learning map tree. Fields the model
// emitted beyond the known ones are kept in Extra and written back verbatim.
type LearningNode struct {
	ID        string
	Title     string
	Level     string
	Summary   string
	Resources []Resource
	Children  []LearningNode
	Extra     map[string]json.RawMessage

	// scalars holds the decoded JSON of id, title, level and summary. It is
	// nil for nodes built in Go.
	scalars map[string]json.RawMessage
}

var scalarNodeFields = []string{"id", "title", "level", "summary"}

var knownNodeFields = []string{"id", "title", "level", "summary", "resources", "children"}

// UnmarshalJSON decodes a node leniently. Non-object input yields an empty
// node; non-array resources or children are treated as empty.
func (n *LearningNode) UnmarshalJSON(data []byte) error {
	*n = LearningNode{scalars: map[string]json.RawMessage{}}
	fields, ok := objectFields(data)
	if !ok {
		return nil
	}
	for _, key := range scalarNodeFields {
		if raw, present := fields[key]; present {
			n.scalars[key] = raw
		}
	}
	n.ID = lenientString(fields["id"])
	n.Title = lenientString(fields["title"])
	n.Level = lenientString(fields["level"])
	n.Summary = lenientString(fields["summary"])
	for _, item := range arrayItems(fields["resources"]) {
		var res Resource
		if err := res.UnmarshalJSON(item); err != nil {
			return err
		}
		n.Resources = append(n.Resources, res)
	}
	for _, item := range arrayItems(fields["children"]) {
		var child LearningNode
		if err := child.UnmarshalJSON(item); err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}
	for _, key := range knownNodeFields {
		delete(fields, key)
	}
	if len(fields) > 0 {
		n.Extra = fields
	}
	return nil
}

// MarshalJSON writes known fields first, then extra fields in key order.
// resources and children are always arrays. For decoded nodes, an unchanged
// scalar field is written exactly as it was read and an absent one that is
// still empty stays absent.
func (n LearningNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, value interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		if raw, ok := value.(json.RawMessage); ok {
			buf.Write(raw)
			return nil
		}
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}

	resources := n.Resources
	if resources == nil {
		resources = []Resource{}
	}
	children := n.Children
	if children == nil {
		children = []LearningNode{}
	}
	for _, kv := range []struct {
		key   string
		value string
	}{
		{"id", n.ID},
		{"title", n.Title},
		{"level", n.Level},
		{"summary", n.Summary},
	} {
		if err := n.writeScalar(write, kv.key, kv.value); err != nil {
			return nil, err
		}
	}
	if err := write("resources", resources); err != nil {
		return nil, err
	}
	if err := write("children", children); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(n.Extra))
	for key := range n.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		raw := n.Extra[key]
		if !json.Valid(raw) {
			continue
		}
		if err := write(key, raw); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (n LearningNode) writeScalar(write func(string, interface{}) error, key, value string) error {
	if n.scalars == nil {
		return write(key, value)
	}
	raw, present := n.scalars[key]
	switch {
	case !present && value == "":
		return nil
	case present && json.Valid(raw) && lenientString(raw) == value:
		return write(key, json.RawMessage(bytes.TrimSpace(raw)))
	default:
		return write(key, value)
	}
}

// LearningMap is the document returned to clients.
type LearningMap struct {
	Topic       string         `json:"topic"`
	TargetLevel Level          `json:"targetLevel"`
	Overview    string         `json:"overview"`
	Nodes       []LearningNode `json:"nodes"`
}

// UnmarshalJSON decodes model output leniently; a missing or non-array
// nodes field leaves Nodes nil.
func (m *LearningMap) UnmarshalJSON(data []byte) error {
	*m = LearningMap{}
	fields, ok := objectFields(data)
	if !ok {
		return nil
	}
	m.Topic = lenientString(fields["topic"])
	m.TargetLevel = Level(lenientString(fields["targetLevel"]))
	m.Overview = lenientString(fields["overview"])
	items := arrayItems(fields["nodes"])
	if items == nil {
		return nil
	}
	m.Nodes = make([]LearningNode, 0, len(items))
	for _, item := range items {
		var node LearningNode
		if err := node.UnmarshalJSON(item); err != nil {
			return err
		}
		m.Nodes = append(m.Nodes, node)
	}
	return nil
}

func objectFields(data []byte) (map[string]json.RawMessage, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func arrayItems(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items
}

func lenientString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}
