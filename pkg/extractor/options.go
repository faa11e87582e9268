package extractor

import "fmt"

// DefaultSlotPolicy decides when a component gets a "default" SlotBit.
type DefaultSlotPolicy string

const (
	// SlotWhenRendered adds "default" only when the markup renders an
	// unnamed slot or $$Slots declares one
	SlotWhenRendered DefaultSlotPolicy = "when-rendered"

	// SlotAlways adds "default" to every component
	SlotAlways DefaultSlotPolicy = "always"
)

// ParseDefaultSlotPolicy validates a policy name. The empty string
// selects SlotWhenRendered.
func ParseDefaultSlotPolicy(s string) (DefaultSlotPolicy, error) {
	switch DefaultSlotPolicy(s) {
	case "", SlotWhenRendered:
		return SlotWhenRendered, nil
	case SlotAlways:
		return SlotAlways, nil
	default:
		return "", fmt.Errorf("unknown default slot policy %q (want %q or %q)", s, SlotWhenRendered, SlotAlways)
	}
}

// Options tunes extraction. Start from DefaultOptions(); the zero value
// attaches only comments directly above a declaration.
type Options struct {
	// SynthesizeDefaultSlot is the default slot policy
	SynthesizeDefaultSlot DefaultSlotPolicy

	// MaxCommentGap is the number of blank lines allowed between a doc
	// comment and the declaration it documents
	MaxCommentGap int

	// AllowPartialTrees extracts from sources with syntax errors instead
	// of failing with a FrontEndFailure
	AllowPartialTrees bool
}

// DefaultOptions returns the options used by the CLI and MCP server.
func DefaultOptions() Options {
	return Options{
		SynthesizeDefaultSlot: SlotWhenRendered,
		MaxCommentGap:         1,
	}
}
