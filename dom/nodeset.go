package dom

import (
	"errors"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NodeSet is the result of a query against a Crawler.
type NodeSet struct {
	crawler *Crawler
	sel     *goquery.Selection
}

// Count returns the number of matched nodes.
func (n *NodeSet) Count() int {
	return len(n.sel.Nodes)
}

// Text returns the concatenated text content of all matched nodes.
func (n *NodeSet) Text() string {
	return n.sel.Text()
}

// Nodes returns the matched nodes.
func (n *NodeSet) Nodes() []*html.Node {
	return append([]*html.Node(nil), n.sel.Nodes...)
}

// Attr returns an attribute of the first matched node.
func (n *NodeSet) Attr(name string) (string, bool) {
	return n.sel.First().Attr(name)
}

// Form builds a Form from the first matched node, which must be a <form> element or a
// control (typically a submit button) inside one. When it is a control, the control is
// treated as the button that submits the form.
func (n *NodeSet) Form() (*Form, error) {
	if n.Count() == 0 {
		return nil, errors.New("the current node list is empty")
	}
	first := n.sel.First()
	if goquery.NodeName(first) == "form" {
		return newForm(n.crawler.baseURI, first, nil), nil
	}
	form := first.Closest("form")
	if form.Length() == 0 {
		return nil, errors.New("the selected node does not have a form ancestor")
	}
	return newForm(n.crawler.baseURI, form, first.Nodes[0]), nil
}
