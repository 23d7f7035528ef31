package dom

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Field is one name/value pair submitted by a form.
type Field struct {
	Name  string
	Value string
}

// Form is a snapshot of an HTML form: where it submits, how, and the values it would send.
type Form struct {
	method string
	action *url.URL
	fields []Field
}

func newForm(base *url.URL, form *goquery.Selection, button *html.Node) *Form {
	f := &Form{
		method: strings.ToUpper(form.AttrOr("method", http.MethodGet)),
		action: resolve(base, form.AttrOr("action", "")),
	}
	if button != nil {
		b := goquery.NewDocumentFromNode(button).Selection
		if action, ok := b.Attr("formaction"); ok {
			f.action = resolve(base, action)
		}
		if method, ok := b.Attr("formmethod"); ok {
			f.method = strings.ToUpper(method)
		}
	}
	form.Find("input, select, textarea, button").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		switch goquery.NodeName(s) {
		case "textarea":
			f.fields = append(f.fields, Field{name, s.Text()})
		case "select":
			f.addSelect(name, s)
		case "button":
			if s.Nodes[0] == button && strings.ToLower(s.AttrOr("type", "submit")) == "submit" {
				f.fields = append(f.fields, Field{name, s.AttrOr("value", "")})
			}
		default:
			f.addInput(name, s, button)
		}
	})
	return f
}

func (f *Form) addInput(name string, s *goquery.Selection, button *html.Node) {
	switch strings.ToLower(s.AttrOr("type", "text")) {
	case "checkbox", "radio":
		if _, checked := s.Attr("checked"); checked {
			f.fields = append(f.fields, Field{name, s.AttrOr("value", "on")})
		}
	case "submit", "image":
		if s.Nodes[0] == button {
			f.fields = append(f.fields, Field{name, s.AttrOr("value", "")})
		}
	case "button", "reset", "file":
	default:
		f.fields = append(f.fields, Field{name, s.AttrOr("value", "")})
	}
}

func (f *Form) addSelect(name string, s *goquery.Selection) {
	options := s.Find("option")
	selected := options.FilterFunction(func(_ int, o *goquery.Selection) bool {
		_, ok := o.Attr("selected")
		return ok
	})
	if _, multiple := s.Attr("multiple"); !multiple {
		if selected.Length() == 0 {
			selected = options.First()
		} else {
			selected = selected.Last()
		}
	}
	selected.Each(func(_ int, o *goquery.Selection) {
		value, ok := o.Attr("value")
		if !ok {
			value = strings.TrimSpace(o.Text())
		}
		f.fields = append(f.fields, Field{name, value})
	})
}

// Method returns the upper-cased method the form submits with.
func (f *Form) Method() string {
	return f.method
}

// URI returns the target URI. For GET forms the values are merged into the query string.
func (f *Form) URI() string {
	u := *f.action
	if f.method == http.MethodGet {
		q := u.Query()
		for k, vs := range f.Values() {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Values returns the values the form submits.
func (f *Form) Values() url.Values {
	ret := make(url.Values)
	for _, field := range f.fields {
		ret.Add(field.Name, field.Value)
	}
	return ret
}

// Fields returns the submitted fields in document order.
func (f *Form) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

// Get returns the first value of a field.
func (f *Form) Get(name string) string {
	for _, field := range f.fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// Set replaces every value of a field with value, adding the field if the form has none.
func (f *Form) Set(name, value string) {
	kept := f.fields[:0]
	found := false
	for _, field := range f.fields {
		if field.Name != name {
			kept = append(kept, field)
		} else if !found {
			kept = append(kept, Field{name, value})
			found = true
		}
	}
	if !found {
		kept = append(kept, Field{name, value})
	}
	f.fields = kept
}

func resolve(base *url.URL, ref string) *url.URL {
	u, err := url.Parse(ref)
	if err != nil {
		return base
	}
	return base.ResolveReference(u)
}
