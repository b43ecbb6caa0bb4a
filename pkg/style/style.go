// ABOUTME: Closed enumerations of terminal colors and text attributes with membership validation.
// ABOUTME: Values are backend-agnostic; encoding to ANSI codes or console flags happens at dispatch.

package style

// Color identifies one of the portable terminal colors.
//
// The set is closed on purpose: every value here has a faithful
// rendering on both ANSI terminals and legacy consoles. ColorReset
// restores the terminal's own default.
type Color int

const (
	ColorReset Color = iota
	ColorBlack
	ColorDarkGrey
	ColorRed
	ColorDarkRed
	ColorGreen
	ColorDarkGreen
	ColorYellow
	ColorDarkYellow
	ColorBlue
	ColorDarkBlue
	ColorMagenta
	ColorDarkMagenta
	ColorCyan
	ColorDarkCyan
	ColorWhite
	ColorGrey

	maxColor // sentinel; keep last
)

// Attribute identifies a text attribute (SGR parameter family).
type Attribute int

const (
	AttrReset Attribute = iota
	AttrBold
	AttrDim
	AttrItalic
	AttrUnderlined
	AttrReverse
	AttrHidden
	AttrCrossedOut

	maxAttribute // sentinel; keep last
)

// colorNames provides human-readable labels for each Color.
var colorNames = map[Color]string{
	ColorReset:       "Reset",
	ColorBlack:       "Black",
	ColorDarkGrey:    "DarkGrey",
	ColorRed:         "Red",
	ColorDarkRed:     "DarkRed",
	ColorGreen:       "Green",
	ColorDarkGreen:   "DarkGreen",
	ColorYellow:      "Yellow",
	ColorDarkYellow:  "DarkYellow",
	ColorBlue:        "Blue",
	ColorDarkBlue:    "DarkBlue",
	ColorMagenta:     "Magenta",
	ColorDarkMagenta: "DarkMagenta",
	ColorCyan:        "Cyan",
	ColorDarkCyan:    "DarkCyan",
	ColorWhite:       "White",
	ColorGrey:        "Grey",
}

// attributeNames provides human-readable labels for each Attribute.
var attributeNames = map[Attribute]string{
	AttrReset:      "Reset",
	AttrBold:       "Bold",
	AttrDim:        "Dim",
	AttrItalic:     "Italic",
	AttrUnderlined: "Underlined",
	AttrReverse:    "Reverse",
	AttrHidden:     "Hidden",
	AttrCrossedOut: "CrossedOut",
}

// Valid reports whether c is a member of the color set.
func (c Color) Valid() bool {
	return c >= ColorReset && c < maxColor
}

// String returns the color's name, or "Invalid" for out-of-range values.
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "Invalid"
}

// Valid reports whether a is a member of the attribute set.
func (a Attribute) Valid() bool {
	return a >= AttrReset && a < maxAttribute
}

// String returns the attribute's name, or "Invalid" for out-of-range values.
func (a Attribute) String() string {
	if name, ok := attributeNames[a]; ok {
		return name
	}
	return "Invalid"
}

// ValidateColor returns a *ValidationError if c is not a member of the
// color set, nil otherwise.
func ValidateColor(c Color) error {
	if !c.Valid() {
		return &ValidationError{Field: "color", Value: int(c)}
	}
	return nil
}

// ValidateAttribute returns a *ValidationError if a is not a member of
// the attribute set, nil otherwise.
func ValidateAttribute(a Attribute) error {
	if !a.Valid() {
		return &ValidationError{Field: "attribute", Value: int(a)}
	}
	return nil
}
