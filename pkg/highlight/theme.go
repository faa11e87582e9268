package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is the theme used when Options.Theme is empty.
const DefaultTheme = "serendipity"

// serendipity is registered with chroma so it resolves like a built-in style.
var serendipity = styles.Register(chroma.MustNewStyle(DefaultTheme, chroma.StyleEntries{
	chroma.Background:          "#dee0ef bg:#151621",
	chroma.Text:                "#dee0ef",
	chroma.Error:               "#ee8679",
	chroma.Comment:             "italic #6b6e8b",
	chroma.CommentPreproc:      "#94b8ff",
	chroma.Keyword:             "#94b8ff",
	chroma.KeywordType:         "#5ba2d0",
	chroma.KeywordConstant:     "#f8d2c9",
	chroma.Operator:            "#86a3c5",
	chroma.Punctuation:         "#838bad",
	chroma.Name:                "#dee0ef",
	chroma.NameAttribute:       "#a78bfa",
	chroma.NameBuiltin:         "#5ba2d0",
	chroma.NameClass:           "#5ba2d0",
	chroma.NameFunction:        "#9ccfd8",
	chroma.NameTag:             "#94b8ff",
	chroma.NameVariable:        "#dee0ef",
	chroma.LiteralString:       "#f8d2c9",
	chroma.LiteralStringRegex:  "#ee8679",
	chroma.LiteralNumber:       "#d4c0ff",
	chroma.GenericDeleted:      "#ee8679",
	chroma.GenericInserted:     "#7bd69b",
	chroma.GenericEmph:         "italic",
	chroma.GenericStrong:       "bold",
	chroma.GenericHeading:      "bold #94b8ff",
	chroma.GenericSubheading:   "#9ccfd8",
	chroma.LiteralStringEscape: "#a78bfa",
}))
