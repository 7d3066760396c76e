package models

import "encoding/json"

// BlockType tags a block's content variant. The set below covers the types
// the pipeline handles explicitly; anything else is opaque and passes through
// traversal untouched.
type BlockType string

const (
	BlockPage         BlockType = "page"
	BlockParagraph    BlockType = "text"
	BlockHeader       BlockType = "header"
	BlockSubHeader    BlockType = "sub_header"
	BlockSubSubHeader BlockType = "sub_sub_header"
	BlockBulletedList BlockType = "bulleted_list"
	BlockNumberedList BlockType = "numbered_list"
	BlockQuote        BlockType = "quote"
	BlockToggle       BlockType = "toggle"
	BlockToDo         BlockType = "to_do"
	BlockCallout      BlockType = "callout"
	BlockCode         BlockType = "code"
	BlockEquation     BlockType = "equation"
	BlockDivider      BlockType = "divider"
)

// TextClass classifies how a block's text participates in translation.
type TextClass int

const (
	// TextProse is translatable prose.
	TextProse TextClass = iota
	// TextVerbatim must never be translated (code semantics, math notation).
	TextVerbatim
	// TextNone carries no text at all.
	TextNone
	// TextOpaque is an unrecognized type; its text fields are still handled
	// through the property allow-list so new block types degrade safely.
	TextOpaque
)

// Class returns the translation class for this block type.
func (t BlockType) Class() TextClass {
	switch t {
	case BlockPage, BlockParagraph, BlockHeader, BlockSubHeader, BlockSubSubHeader,
		BlockBulletedList, BlockNumberedList, BlockQuote, BlockToggle, BlockToDo,
		BlockCallout:
		return TextProse
	case BlockCode, BlockEquation:
		return TextVerbatim
	case BlockDivider:
		return TextNone
	default:
		return TextOpaque
	}
}

// Span is one rich-text run. On the wire it is a JSON tuple whose first
// element is the display text and whose remaining elements are decorations:
// ["bold text", [["b"]]]. Only the leading text participates in translation;
// decorations ride along byte-identical.
type Span struct {
	parts []json.RawMessage
}

// NewSpan builds a span from display text plus raw decorations.
func NewSpan(text string, decorations ...json.RawMessage) Span {
	raw, _ := json.Marshal(text)
	parts := make([]json.RawMessage, 0, 1+len(decorations))
	parts = append(parts, raw)
	parts = append(parts, decorations...)
	return Span{parts: parts}
}

// Text returns the display text, or "" when the leading tuple element is not
// a plain string (inline equations, mentions).
func (s Span) Text() string {
	if len(s.parts) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(s.parts[0], &text); err != nil {
		return ""
	}
	return text
}

// SetText overwrites the display text in place, leaving decorations alone.
// It refuses to write into spans whose head is not a plain string.
func (s *Span) SetText(text string) {
	if len(s.parts) == 0 {
		return
	}
	var head string
	if err := json.Unmarshal(s.parts[0], &head); err != nil {
		return
	}
	raw, err := json.Marshal(text)
	if err != nil {
		return
	}
	s.parts[0] = raw
}

// Decorations returns the raw decoration elements following the text.
func (s Span) Decorations() []json.RawMessage {
	if len(s.parts) < 2 {
		return nil
	}
	return s.parts[1:]
}

// Clone makes a structural copy sharing no bytes with the receiver.
func (s Span) Clone() Span {
	parts := make([]json.RawMessage, len(s.parts))
	for i, p := range s.parts {
		cp := make(json.RawMessage, len(p))
		copy(cp, p)
		parts[i] = cp
	}
	return Span{parts: parts}
}

func (s Span) MarshalJSON() ([]byte, error) {
	if s.parts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.parts)
}

func (s *Span) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	s.parts = parts
	return nil
}

// Block is one node of a record map.
type Block struct {
	ID             string            `json:"id,omitempty"`
	Type           BlockType         `json:"type"`
	Properties     map[string][]Span `json:"properties,omitempty"`
	Content        []string          `json:"content,omitempty"`
	Format         json.RawMessage   `json:"format,omitempty"`
	ParentID       string            `json:"parent_id,omitempty"`
	ParentTable    string            `json:"parent_table,omitempty"`
	CreatedTime    int64             `json:"created_time,omitempty"`
	LastEditedTime int64             `json:"last_edited_time,omitempty"`
	Alive          bool              `json:"alive,omitempty"`
}

// Clone makes a structural copy sharing no mutable state with the receiver.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	clone := *b
	if b.Properties != nil {
		clone.Properties = make(map[string][]Span, len(b.Properties))
		for key, spans := range b.Properties {
			copied := make([]Span, len(spans))
			for i, span := range spans {
				copied[i] = span.Clone()
			}
			clone.Properties[key] = copied
		}
	}
	if b.Content != nil {
		clone.Content = append([]string(nil), b.Content...)
	}
	if b.Format != nil {
		clone.Format = append(json.RawMessage(nil), b.Format...)
	}
	return &clone
}

// BlockEnvelope wraps a block value. Notion has shipped both {value: {...}}
// and {value: {value: {...}}} shapes; unmarshalling accepts either.
type BlockEnvelope struct {
	Role  string `json:"role,omitempty"`
	Value *Block `json:"value,omitempty"`
}

func (e *BlockEnvelope) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role  string          `json:"role"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Role = raw.Role
	e.Value = nil
	if len(raw.Value) == 0 {
		return nil
	}

	var block Block
	if err := json.Unmarshal(raw.Value, &block); err != nil {
		return err
	}
	if block.Type == "" {
		var nested struct {
			Value *Block `json:"value"`
		}
		if err := json.Unmarshal(raw.Value, &nested); err == nil && nested.Value != nil && nested.Value.Type != "" {
			e.Value = nested.Value
			return nil
		}
	}
	e.Value = &block
	return nil
}

// RecordMap is the nested-block document model backing a post's body.
type RecordMap struct {
	Block map[string]BlockEnvelope `json:"block"`
}

// Clone deep-copies the tree. The clone shares no mutable sub-objects with
// the original, so patching a clone can never disturb the source.
func (m *RecordMap) Clone() *RecordMap {
	if m == nil {
		return nil
	}
	clone := &RecordMap{Block: make(map[string]BlockEnvelope, len(m.Block))}
	for id, env := range m.Block {
		clone.Block[id] = BlockEnvelope{Role: env.Role, Value: env.Value.Clone()}
	}
	return clone
}
