package usecase

import (
	"regexp"
	"strings"

	"invest_backend/internal/feature/crawling/domain/entity"
	symbolentity "invest_backend/internal/feature/symbollist/domain/entity"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DetectContentType は Content-Type ヘッダーから本文の種類を判定します。
func DetectContentType(header string) entity.ContentType {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "html"):
		return entity.ContentHTML
	case strings.Contains(h, "json"):
		return entity.ContentJSON
	case strings.Contains(h, "xml"):
		return entity.ContentXML
	default:
		return entity.ContentText
	}
}

// ExtractTitle は HTML の <title> を返します。無ければ空文字列です。
func ExtractTitle(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}
	var title string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			if n.FirstChild != nil {
				title = strings.Join(strings.Fields(n.FirstChild.Data), " ")
			}
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}

// ExtractText は本文のテキストを返します。HTML は script/style を除いたテキストノードを連結します。
func ExtractText(ct entity.ContentType, body string) string {
	if ct != entity.ContentHTML {
		return strings.TrimSpace(body)
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Head:
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(b.String()), " ")
}

// symbolMatcher は1銘柄分のコード・名称パターンです。
type symbolMatcher struct {
	code     string
	patterns []*regexp.Regexp
}

// newSymbolMatchers は銘柄コードと名称を大文字小文字を区別せず単語単位で照合するパターンを作ります。
func newSymbolMatchers(symbols []symbolentity.Symbol) []symbolMatcher {
	out := make([]symbolMatcher, 0, len(symbols))
	for _, s := range symbols {
		m := symbolMatcher{code: s.Code}
		for _, term := range []string{s.Code, s.Name} {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			m.patterns = append(m.patterns,
				regexp.MustCompile(`(?i)(?:^|[^A-Za-z0-9.])`+regexp.QuoteMeta(term)+`(?:$|[^A-Za-z0-9])`))
		}
		out = append(out, m)
	}
	return out
}

// matchSymbols は text に現れる銘柄コードを登録順・重複なしで返します。
func matchSymbols(matchers []symbolMatcher, text string) []string {
	var found []string
	for _, m := range matchers {
		for _, p := range m.patterns {
			if p.MatchString(text) {
				found = append(found, m.code)
				break
			}
		}
	}
	return found
}
