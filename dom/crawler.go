// Package dom is the DOM query layer used by the assertions: it parses a response body and
// selects nodes with CSS selectors (cascadia, through goquery) or XPath expressions
// (htmlquery). Selected nodes form a NodeSet, from which text content and forms can be
// extracted.
package dom

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Crawler is a parsed HTML document.
type Crawler struct {
	doc     *goquery.Document
	baseURI *url.URL
}

// Parse parses an HTML body. The base URI is used to resolve form actions; it may be empty.
func Parse(body []byte, baseURI string) (*Crawler, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to parse HTML: %w", err)
	}
	base, err := url.Parse(baseURI)
	if err != nil {
		return nil, fmt.Errorf("invalid base URI %q: %w", baseURI, err)
	}
	return &Crawler{doc: goquery.NewDocumentFromNode(root), baseURI: base}, nil
}

// BaseURI returns the URI the document was loaded from.
func (c *Crawler) BaseURI() *url.URL {
	u := *c.baseURI
	return &u
}

// Root returns the document node.
func (c *Crawler) Root() *html.Node {
	return c.doc.Nodes[0]
}

// Filter selects the nodes matching a CSS selector. Unlike goquery's Find, an invalid
// selector is an error rather than an empty selection.
func (c *Crawler) Filter(selector string) (*NodeSet, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid CSS selector %q: %w", selector, err)
	}
	return c.newNodeSet(c.doc.FindMatcher(m)), nil
}

// FilterXPath selects the nodes matching an XPath expression.
func (c *Crawler) FilterXPath(expr string) (*NodeSet, error) {
	nodes, err := htmlquery.QueryAll(c.Root(), expr)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression %q: %w", expr, err)
	}
	return c.newNodeSet(&goquery.Selection{Nodes: nodes}), nil
}

// SelectButton selects the buttons whose label, value, id or name equals value. Both
// <button> elements and submit, button and image inputs are considered.
func (c *Crawler) SelectButton(value string) *NodeSet {
	sel := c.doc.Find("button, input").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "input" {
			switch strings.ToLower(s.AttrOr("type", "")) {
			case "submit", "button", "image":
			default:
				return false
			}
			return attrEquals(s, value, "value", "id", "name", "alt")
		}
		return strings.TrimSpace(s.Text()) == value || attrEquals(s, value, "value", "id", "name")
	})
	return c.newNodeSet(sel)
}

func (c *Crawler) newNodeSet(sel *goquery.Selection) *NodeSet {
	return &NodeSet{crawler: c, sel: sel}
}

func attrEquals(s *goquery.Selection, value string, names ...string) bool {
	for _, name := range names {
		if v, ok := s.Attr(name); ok && v == value {
			return true
		}
	}
	return false
}
