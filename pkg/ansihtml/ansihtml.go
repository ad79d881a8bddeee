// Package ansihtml converts ANSI-colored terminal text into HTML markup.
package ansihtml

import (
	"fmt"
	"html"
	"image/color"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type style struct {
	bold      bool
	faint     bool
	italic    bool
	underline bool
	fg        string
	bg        string
}

func (s style) zero() bool { return s == style{} }

func (s style) css() string {
	var parts []string
	if s.bold {
		parts = append(parts, "font-weight: bold")
	}
	if s.faint {
		parts = append(parts, "opacity: 0.7")
	}
	if s.italic {
		parts = append(parts, "font-style: italic")
	}
	if s.underline {
		parts = append(parts, "text-decoration: underline")
	}
	if s.fg != "" {
		parts = append(parts, "color: "+s.fg)
	}
	if s.bg != "" {
		parts = append(parts, "background-color: "+s.bg)
	}
	return strings.Join(parts, "; ")
}

// Convert returns s as an HTML fragment: text is escaped, SGR sequences become
// styled spans and every other escape sequence is dropped.
func Convert(s string) string {
	var (
		out   strings.Builder
		cur   style
		open  bool
		state byte
	)
	p := ansi.NewParser()
	for len(s) > 0 {
		seq, _, n, next := ansi.DecodeSequence(s, state, p)
		state = next
		s = s[n:]

		if !isSequence(seq) {
			out.WriteString(html.EscapeString(seq))
			continue
		}
		cmd := ansi.Cmd(p.Command())
		if !ansi.HasCsiPrefix(seq) || cmd.Final() != 'm' || cmd.Prefix() != 0 || cmd.Intermediate() != 0 {
			continue
		}
		nextStyle := applySGR(cur, p.Params())
		if nextStyle == cur {
			continue
		}
		if open {
			out.WriteString("</span>")
			open = false
		}
		cur = nextStyle
		if !cur.zero() {
			out.WriteString(`<span style="` + cur.css() + `">`)
			open = true
		}
	}
	if open {
		out.WriteString("</span>")
	}
	return out.String()
}

// ConvertFull wraps the converted fragment in a preformatted block.
func ConvertFull(s string) string {
	return `<pre class="ansi2html-content">` + Convert(s) + "</pre>"
}

// Strip removes every escape sequence and returns plain text.
func Strip(s string) string {
	return ansi.Strip(s)
}

func isSequence(seq string) bool {
	return ansi.HasEscPrefix(seq) ||
		ansi.HasCsiPrefix(seq) ||
		ansi.HasOscPrefix(seq) ||
		ansi.HasDcsPrefix(seq) ||
		ansi.HasApcPrefix(seq) ||
		ansi.HasSosPrefix(seq) ||
		ansi.HasPmPrefix(seq)
}

func applySGR(cur style, params ansi.Params) style {
	if len(params) == 0 {
		return style{}
	}
	for k := 0; k < len(params); k++ {
		n := params[k].Param(0)
		switch {
		case n == 0:
			cur = style{}
		case n == 1:
			cur.bold = true
		case n == 2:
			cur.faint = true
		case n == 3:
			cur.italic = true
		case n == 4:
			cur.underline = true
		case n == 22:
			cur.bold, cur.faint = false, false
		case n == 23:
			cur.italic = false
		case n == 24:
			cur.underline = false
		case n >= 30 && n <= 37:
			cur.fg = hex(ansi.BasicColor(n - 30))
		case n == 39:
			cur.fg = ""
		case n >= 40 && n <= 47:
			cur.bg = hex(ansi.BasicColor(n - 40))
		case n == 49:
			cur.bg = ""
		case n >= 90 && n <= 97:
			cur.fg = hex(ansi.BasicColor(n - 90 + 8))
		case n >= 100 && n <= 107:
			cur.bg = hex(ansi.BasicColor(n - 100 + 8))
		case n == 38 || n == 48:
			var c color.Color
			used := ansi.ReadStyleColor(params[k:], &c)
			if used == 0 {
				// Malformed color, the rest of the sequence cannot be trusted.
				return cur
			}
			k += used - 1
			if n == 38 {
				cur.fg = hex(c)
			} else {
				cur.bg = hex(c)
			}
		}
	}
	return cur
}

// hex renders c as a CSS color; transparent means the terminal default.
func hex(c color.Color) string {
	if c == nil {
		return ""
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
