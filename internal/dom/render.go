package dom

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var voidTags = map[string]bool{
	"area": true, "base": true, "basefont": true, "br": true, "col": true,
	"command": true, "embed": true, "frame": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoid reports whether tag has no closing tag.
func IsVoid(tag string) bool {
	return voidTags[strings.ToLower(tag)]
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", ">", "&gt;", "<", "&lt;")
	attrEscaper = strings.NewReplacer(`"`, "&quot;")
)

// Render writes the children of n (or n itself when it is not a fragment).
//
// The output form is fixed: void elements as <tag/>, attribute values
// double-quoted with only '"' escaped, text escaped for &, < and > except
// inside script and style, comments as <!-- trimmed data -->.
func Render(w io.Writer, n *html.Node) error {
	bw := bufio.NewWriter(w)
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(bw, c)
		}
	} else {
		render(bw, n)
	}
	return bw.Flush()
}

// String renders n into a string.
func String(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	_ = Render(&sb, n) //nolint:errcheck // strings.Builder never fails
	return sb.String()
}

func render(w *bufio.Writer, n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		w.WriteByte('<')
		w.WriteString(tag)
		for _, a := range n.Attr {
			w.WriteByte(' ')
			if a.Namespace != "" {
				w.WriteString(a.Namespace)
				w.WriteByte(':')
			}
			w.WriteString(a.Key)
			w.WriteString(`="`)
			attrEscaper.WriteString(w, a.Val) //nolint:errcheck
			w.WriteByte('"')
		}
		if voidTags[tag] {
			w.WriteString("/>")
			return
		}
		w.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(w, c)
		}
		w.WriteString("</")
		w.WriteString(tag)
		w.WriteByte('>')
	case html.TextNode:
		if p := n.Parent; p != nil && p.Type == html.ElementNode && isRawText(p.Data) {
			w.WriteString(n.Data)
			return
		}
		textEscaper.WriteString(w, n.Data) //nolint:errcheck
	case html.CommentNode:
		w.WriteString("<!-- ")
		w.WriteString(strings.TrimSpace(n.Data))
		w.WriteString(" -->")
	case html.DoctypeNode:
		w.WriteString("<!DOCTYPE ")
		w.WriteString(n.Data)
		w.WriteByte('>')
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(w, c)
		}
	case html.RawNode:
		w.WriteString(n.Data)
	}
}

func isRawText(tag string) bool {
	switch strings.ToLower(tag) {
	case "script", "style":
		return true
	}
	return false
}
