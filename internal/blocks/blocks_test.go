package blocks

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"htmlizer/internal/dom"
)

func flat(t *testing.T, markup string) []*html.Node {
	t.Helper()
	frag, err := dom.ParseFragment(markup)
	if err != nil {
		t.Fatal(err)
	}
	return dom.Flatten(frag)
}

type pair struct{ Key, Start, End string }

func describe(tbl *Table) []pair {
	var out []pair
	for _, b := range tbl.All() {
		out = append(out, pair{b.Key, strings.TrimSpace(b.Start.Data), strings.TrimSpace(b.End.Data)})
	}
	return out
}

func TestMatchNested(t *testing.T) {
	markup := `<!-- ko if: a --><div><!-- ko foreach: xs --><i></i><!-- /ko --></div>` +
		`<p></p><!-- hz text: t --><!-- /hz --><!-- /ko -->`
	tbl, err := Match(flat(t, markup), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []pair{
		{"foreach", "ko foreach: xs", "/ko"},
		{"text", "hz text: t", "/hz"},
		{"if", "ko if: a", "/ko"},
	}
	if diff := cmp.Diff(want, describe(tbl)); diff != "" {
		t.Fatalf("blocks (-want +got):\n%s", diff)
	}
	for _, b := range tbl.All() {
		got, ok := tbl.ByStart(b.Start)
		if !ok || got.End != b.End {
			t.Fatalf("ByStart lookup broken for %s", b.Key)
		}
		if got, ok := tbl.ByEnd(b.End); !ok || got.Start != b.Start {
			t.Fatalf("ByEnd lookup broken for %s", b.Key)
		}
	}
}

func TestMatchManyPairs(t *testing.T) {
	var sb strings.Builder
	const n = 25
	for i := range n {
		if i%3 == 0 {
			sb.WriteString("<span></span>")
		}
		sb.WriteString("<!-- ko with: x --><b></b>")
	}
	for range n {
		sb.WriteString("<!-- /ko --><hr/>")
	}
	tbl, err := Match(flat(t, sb.String()), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != n {
		t.Fatalf("got %d blocks, want %d", tbl.Len(), n)
	}
	// innermost block closes first
	all := tbl.All()
	for i := 1; i < len(all); i++ {
		if all[i].Start == all[i-1].Start || all[i].End == all[i-1].End {
			t.Fatal("markers paired twice")
		}
	}
}

func TestMatchMissingEnd(t *testing.T) {
	_, err := Match(flat(t, `<!-- ko if: a --><!-- ko text: b --><!-- /ko -->`), Options{})
	if !errors.Is(err, ErrMissingEndTag) {
		t.Fatalf("want ErrMissingEndTag, got %v", err)
	}
	var unclosed *UnclosedError
	if !errors.As(err, &unclosed) || unclosed.Stmt != "ko if: a" {
		t.Fatalf("unexpected error %v", err)
	}
	if err.Error() != "missing end tag for ko if: a" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestMatchExtraEnd(t *testing.T) {
	var extra int
	tbl, err := Match(flat(t, `<!-- /ko --><!-- ko if: a --><!-- /ko --><!-- /hz -->`), Options{
		ExtraEnd: func(*html.Node) { extra++ },
	})
	if err != nil {
		t.Fatalf("extra end must not be fatal: %v", err)
	}
	if extra != 2 || tbl.Len() != 1 {
		t.Fatalf("extra=%d blocks=%d", extra, tbl.Len())
	}
}

func TestMatchNoConflict(t *testing.T) {
	tbl, err := Match(flat(t, `<!-- ko if: a --><!-- hz if: b --><!-- /hz -->`), Options{NoConflict: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]pair{{"if", "hz if: b", "/hz"}}, describe(tbl)); diff != "" {
		t.Fatal(diff)
	}
}
