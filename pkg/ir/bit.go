package ir

import "encoding/json"

// Bit is a named, typed, optionally documented element of a file's
// public surface: an export, a prop, an event or a slot prop.
type Bit struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Comment *Comment `json:"comment,omitempty"`
}

// ExportBit is a module export. At most one export per file has
// IsDefaultExport set. A named default declaration keeps its name;
// anonymous default exports are called "default".
type ExportBit struct {
	Bit
	IsDefaultExport bool `json:"isDefaultExport"`
}

// SlotBit is a named placeholder in a component's rendered output.
// Unnamed slots are called "default".
type SlotBit struct {
	Name    string   `json:"name"`
	Comment *Comment `json:"comment,omitempty"`
	Props   []Bit    `json:"props"`
}

// DefaultSlotName names the implicit slot of a component.
const DefaultSlotName = "default"

// DefaultExportName names the default export of a module.
const DefaultExportName = "default"

// MarshalJSON always emits props as an array.
func (s SlotBit) MarshalJSON() ([]byte, error) {
	type wire SlotBit
	w := wire(s)
	w.Props = nonNil(w.Props)
	return json.Marshal(w)
}

// BitKind discriminates the Bit variants.
type BitKind int

const (
	// KindPlain is a Bit
	KindPlain BitKind = iota
	// KindExport is an ExportBit
	KindExport
	// KindSlot is a SlotBit
	KindSlot
)

func (k BitKind) String() string {
	switch k {
	case KindPlain:
		return "bit"
	case KindExport:
		return "export"
	case KindSlot:
		return "slot"
	default:
		return "unknown"
	}
}

// Element is implemented by all three Bit variants so collections can be
// inspected uniformly.
type Element interface {
	ElementName() string
	ElementKind() BitKind
	DocComment() *Comment
}

func (b Bit) ElementName() string { return b.Name }
func (b Bit) ElementKind() BitKind { return KindPlain }
func (b Bit) DocComment() *Comment { return b.Comment }

func (e ExportBit) ElementKind() BitKind { return KindExport }

func (s SlotBit) ElementName() string { return s.Name }
func (s SlotBit) ElementKind() BitKind { return KindSlot }
func (s SlotBit) DocComment() *Comment { return s.Comment }

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
