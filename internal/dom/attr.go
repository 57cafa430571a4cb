package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of attribute key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces attribute key, keeping its position when present.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: strings.ToLower(key), Val: val})
}

// RemoveAttr deletes attribute key; it reports whether it was present.
func RemoveAttr(n *html.Node, key string) bool {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// AddClass appends class token cls unless it is present.
func AddClass(n *html.Node, cls string) {
	cur, _ := Attr(n, "class")
	fields := strings.Fields(cur)
	for _, f := range fields {
		if f == cls {
			return
		}
	}
	SetAttr(n, "class", strings.Join(append(fields, cls), " "))
}

// RemoveClass drops class token cls. An emptied class attribute is removed.
func RemoveClass(n *html.Node, cls string) {
	cur, ok := Attr(n, "class")
	if !ok {
		return
	}
	fields := strings.Fields(cur)
	out := fields[:0]
	for _, f := range fields {
		if f != cls {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

type styleProp struct{ name, value string }

func parseStyle(s string) []styleProp {
	var out []styleProp
	for decl := range strings.SplitSeq(s, ";") {
		name, value, ok := strings.Cut(decl, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		out = append(out, styleProp{strings.ToLower(name), strings.TrimSpace(value)})
	}
	return out
}

func writeStyle(n *html.Node, props []styleProp) {
	if len(props) == 0 {
		RemoveAttr(n, "style")
		return
	}
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.name + ": " + p.value + ";"
	}
	SetAttr(n, "style", strings.Join(parts, " "))
}

// Style returns the value of CSS property prop from the style attribute.
func Style(n *html.Node, prop string) string {
	cur, _ := Attr(n, "style")
	for _, p := range parseStyle(cur) {
		if p.name == prop {
			return p.value
		}
	}
	return ""
}

// SetStyle sets CSS property prop in the style attribute. An empty value
// removes the property.
func SetStyle(n *html.Node, prop, value string) {
	if value == "" {
		RemoveStyle(n, prop)
		return
	}
	cur, _ := Attr(n, "style")
	props := parseStyle(cur)
	for i := range props {
		if props[i].name == prop {
			props[i].value = value
			writeStyle(n, props)
			return
		}
	}
	writeStyle(n, append(props, styleProp{prop, value}))
}

// RemoveStyle drops CSS property prop.
func RemoveStyle(n *html.Node, prop string) {
	cur, ok := Attr(n, "style")
	if !ok {
		return
	}
	props := parseStyle(cur)
	out := props[:0]
	for _, p := range props {
		if p.name != prop {
			out = append(out, p)
		}
	}
	writeStyle(n, out)
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(String(c))
	}
	return sb.String()
}

// TextContent concatenates every text node under n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	Walk(n, func(c *html.Node) Control {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return Descend
	}, nil)
	return sb.String()
}

// CSSName turns a camelCase property (fontSize) into its CSS form (font-size).
func CSSName(prop string) string {
	var sb strings.Builder
	for _, r := range prop {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
