package ir

// Comment is the structured form of a documentation comment.
//
// Every text field holds normalized text with the comment delimiters and
// leading asterisks removed. Inline {@link ...} tags stay in the text
// verbatim and are additionally listed in Links in source order.
//
// Raw always carries the comment exactly as it appeared in the source,
// including delimiters, so consumers can re-render it.
type Comment struct {
	// Summary is the text before the first block tag
	Summary string `json:"summary,omitempty"`

	// Remarks collects @remarks sections and any content that could not
	// be attributed to a well-formed tag
	Remarks string `json:"remarks,omitempty"`

	Params     []Param `json:"params,omitempty"`
	TypeParams []Param `json:"typeParams,omitempty"`

	DefaultValue string `json:"defaultValue,omitempty"`
	Returns      string `json:"returns,omitempty"`

	Notes        []string      `json:"notes,omitempty"`
	Examples     []Example     `json:"examples,omitempty"`
	SeeBlocks    []string      `json:"seeBlocks,omitempty"`
	CustomBlocks []CustomBlock `json:"customBlocks,omitempty"`

	Raw   string `json:"raw"`
	Links []Link `json:"links,omitempty"`

	Modifiers
}

// Param documents a single parameter or type parameter.
type Param struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Example is one @example section. Name and Title come from the text on
// the tag line ("Name - Title" or just "Title").
type Example struct {
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
	Title   string `json:"title,omitempty"`
}

// CustomBlock preserves a block tag that has no dedicated field.
type CustomBlock struct {
	TagName string `json:"tagName"`
	Content string `json:"content"`
}

// Link is an inline {@link target text} reference.
type Link struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

// Modifiers are the boolean modifier tags. They are flattened into the
// owning Comment when serialized.
type Modifiers struct {
	Alpha                bool `json:"alpha,omitempty"`
	Beta                 bool `json:"beta,omitempty"`
	EventProperty        bool `json:"eventProperty,omitempty"`
	Experimental         bool `json:"experimental,omitempty"`
	Internal             bool `json:"internal,omitempty"`
	Override             bool `json:"override,omitempty"`
	PackageDocumentation bool `json:"packageDocumentation,omitempty"`
	Public               bool `json:"public,omitempty"`
	Readonly             bool `json:"readonly,omitempty"`
	Sealed               bool `json:"sealed,omitempty"`
	Virtual              bool `json:"virtual,omitempty"`
}

// ModifierTags lists the recognized modifier tag names in declaration order.
var ModifierTags = []string{
	"alpha",
	"beta",
	"eventProperty",
	"experimental",
	"internal",
	"override",
	"packageDocumentation",
	"public",
	"readonly",
	"sealed",
	"virtual",
}

// field returns a pointer to the flag for tag, or nil if tag is not a modifier.
func (m *Modifiers) field(tag string) *bool {
	switch tag {
	case "alpha":
		return &m.Alpha
	case "beta":
		return &m.Beta
	case "eventProperty":
		return &m.EventProperty
	case "experimental":
		return &m.Experimental
	case "internal":
		return &m.Internal
	case "override":
		return &m.Override
	case "packageDocumentation":
		return &m.PackageDocumentation
	case "public":
		return &m.Public
	case "readonly":
		return &m.Readonly
	case "sealed":
		return &m.Sealed
	case "virtual":
		return &m.Virtual
	}
	return nil
}

// Set raises the flag named by tag and reports whether tag is a modifier.
func (m *Modifiers) Set(tag string) bool {
	f := m.field(tag)
	if f == nil {
		return false
	}
	*f = true
	return true
}

// Has reports whether the modifier named by tag is set.
func (m Modifiers) Has(tag string) bool {
	f := m.field(tag)
	return f != nil && *f
}

// IsModifier reports whether tag names a modifier.
func IsModifier(tag string) bool {
	var m Modifiers
	return m.field(tag) != nil
}

// Active returns the names of all set modifiers in declaration order.
func (m Modifiers) Active() []string {
	var out []string
	for _, tag := range ModifierTags {
		if m.Has(tag) {
			out = append(out, tag)
		}
	}
	return out
}
