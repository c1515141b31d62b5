package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"
)

// parseFragment parses rendered markup and returns the root node.
func parseFragment(t *testing.T, fragment string) *xhtml.Node {
	t.Helper()
	doc, err := xhtml.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func hasClass(n *xhtml.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findAll(n *xhtml.Node, match func(*xhtml.Node) bool) []*xhtml.Node {
	var out []*xhtml.Node
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *xhtml.Node) string {
	var b strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func TestRenderSingleSection(t *testing.T) {
	for _, title := range SymptomTitles {
		t.Run(title, func(t *testing.T) {
			res := NewRenderer(SymptomVariant()).Render(Input{Report: title + "\nline1\nline2\n"})

			sections := res.Sections()
			require.Len(t, sections, 1)
			assert.Equal(t, title, sections[0].Title)
			assert.Equal(t, "line1<br>line2", string(sections[0].HTML))
		})
	}
}

func TestRenderDropsLeadingNoise(t *testing.T) {
	res := NewRenderer(SymptomVariant()).Render(Input{Report: "noise\nPossible Conditions:\nA"})

	sections := res.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, "Possible Conditions:", sections[0].Title)
	assert.Equal(t, "A", string(sections[0].HTML))
	assert.NotContains(t, res.HTML, "noise")
}

func TestRenderDropsSectionWithoutBody(t *testing.T) {
	res := NewRenderer(SymptomVariant()).Render(Input{Report: "Possible Conditions:\nKey Symptoms Analysis:\nX"})

	sections := res.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, "Key Symptoms Analysis:", sections[0].Title)
	assert.Equal(t, "X", string(sections[0].HTML))
	assert.NotContains(t, res.HTML, "Possible Conditions")
}

func TestRenderPlaceholderPolicyKeepsEmptySections(t *testing.T) {
	r := NewRenderer(SymptomVariant(), WithEmptySections(EmptySectionsPlaceholder))
	res := r.Render(Input{Report: "Possible Conditions:\nKey Symptoms Analysis:\nX\nRisk Factors:\n   \n"})

	sections := res.Sections()
	require.Len(t, sections, 3)
	assert.Equal(t, PlaceholderText, string(sections[0].HTML))
	assert.Equal(t, "X", string(sections[1].HTML))
	assert.Equal(t, PlaceholderText, string(sections[2].HTML))
}

func TestRenderListBodies(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		items []string
	}{
		{name: "bullets", body: "- item one\n- item two", items: []string{"item one", "item two"}},
		{name: "numbered", body: "1. first\n2. second", items: []string{"first", "second"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewRenderer(SymptomVariant()).Render(Input{Report: "Risk Factors:\n" + tt.body})
			doc := parseFragment(t, res.HTML)

			lists := findAll(doc, func(n *xhtml.Node) bool { return n.Data == "ul" })
			require.Len(t, lists, 1)
			items := findAll(lists[0], func(n *xhtml.Node) bool { return n.Data == "li" })
			require.Len(t, items, len(tt.items))
			for i, want := range tt.items {
				assert.Equal(t, want, textOf(items[i]))
			}
		})
	}
}

func TestRenderAlwaysEndsWithOneAdvisory(t *testing.T) {
	reports := []string{
		"",
		"no titles at all",
		"Possible Conditions:\n- Flu (High confidence)\nWarning Signs:\n- fever above 39C",
	}
	for _, report := range reports {
		res := NewRenderer(SymptomVariant()).Render(Input{Report: report})

		require.NotEmpty(t, res.Blocks)
		last := res.Blocks[len(res.Blocks)-1]
		assert.Equal(t, BlockAdvisory, last.Kind)

		doc := parseFragment(t, res.HTML)
		alerts := findAll(doc, func(n *xhtml.Node) bool { return hasClass(n, "alert-warning") })
		assert.Len(t, alerts, 1, "report %q", report)
		assert.Contains(t, textOf(alerts[0]), "Disclaimer:")
	}
}

func TestRenderEmptyReportHasOnlyAdvisory(t *testing.T) {
	res := NewRenderer(ImageVariant()).Render(Input{})

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, BlockAdvisory, res.Blocks[0].Kind)
	assert.Equal(t, "Important:", res.Blocks[0].Title)
}

func TestRenderIsIdempotent(t *testing.T) {
	r := NewRenderer(SymptomVariant())
	in := Input{Report: "Possible Conditions:\n- Migraine\nRecommended Next Steps:\n1. Rest\n2. Hydrate"}

	first := r.Render(in)
	second := r.Render(in)
	assert.Equal(t, first.HTML, second.HTML)
}

func TestRenderImageBlockComesFirst(t *testing.T) {
	r := NewRenderer(ImageVariant())
	res := r.Render(Input{
		Report:   "Visual Findings:\nred patch\nImportant Notes:\nsee a doctor",
		ImageURL: "data:image/png;base64,iVBORw0KGgo=",
	})

	require.Len(t, res.Blocks, 4)
	assert.Equal(t, BlockImage, res.Blocks[0].Kind)
	assert.Equal(t, BlockSection, res.Blocks[1].Kind)
	assert.Equal(t, BlockAdvisory, res.Blocks[3].Kind)

	doc := parseFragment(t, res.HTML)
	imgs := findAll(doc, func(n *xhtml.Node) bool { return n.Data == "img" })
	require.Len(t, imgs, 1)
	var src string
	for _, a := range imgs[0].Attr {
		if a.Key == "src" {
			src = a.Val
		}
	}
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", src)
	assert.Less(t, strings.Index(res.HTML, "<img"), strings.Index(res.HTML, "Visual Findings:"))
}

func TestRenderSkipsInvalidImageURL(t *testing.T) {
	tests := []string{
		"javascript:alert(1)",
		"data:text/html;base64,PHNjcmlwdD4=",
		"ftp://example.com/a.png",
		"/relative/a.png",
		`https://example.com/a.png" onerror="x`,
		"   ",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			res := NewRenderer(ImageVariant()).Render(Input{Report: "Visual Findings:\nred patch", ImageURL: raw})

			require.Len(t, res.Blocks, 2)
			assert.Equal(t, BlockSection, res.Blocks[0].Kind)
			assert.NotContains(t, res.HTML, "<img")
			assert.NotContains(t, res.HTML, "ZgotmplZ")
		})
	}
}

func TestRenderKeepsHTTPSImageURL(t *testing.T) {
	res := NewRenderer(ImageVariant()).Render(Input{ImageURL: "https://example.com/scan.png?w=300"})

	require.Equal(t, BlockImage, res.Blocks[0].Kind)
	assert.Contains(t, res.HTML, `src="https://example.com/scan.png?w=300"`)
}

func TestRenderStylesByTitle(t *testing.T) {
	res := NewRenderer(ImageVariant()).Render(Input{Report: "Visual Findings: left forearm\nraised rash"})

	sections := res.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, "Visual Findings: left forearm", sections[0].Title)
	assert.Equal(t, "fas fa-eye", sections[0].Icon)
	assert.Equal(t, "border-info", sections[0].ColorClass)
}

func TestRenderEscapesModelOutput(t *testing.T) {
	res := NewRenderer(SymptomVariant()).Render(Input{Report: "Warning Signs:\n<script>alert('x')</script>"})

	assert.NotContains(t, res.HTML, "<script>")
	assert.Contains(t, res.HTML, "&lt;script&gt;")
}

func TestWrapUsesVariantContainer(t *testing.T) {
	r := NewRenderer(SymptomVariant())
	out := r.Wrap(r.Render(Input{}))

	doc := parseFragment(t, out)
	containers := findAll(doc, func(n *xhtml.Node) bool {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == "analysis-results" {
				return true
			}
		}
		return false
	})
	assert.Len(t, containers, 1)
}

func TestVariantByName(t *testing.T) {
	v, ok := VariantByName("image")
	require.True(t, ok)
	assert.Equal(t, "image", v.Name)

	v, ok = VariantByName("")
	require.True(t, ok)
	assert.Equal(t, "symptom", v.Name)

	_, ok = VariantByName("xray")
	assert.False(t, ok)
}
