package rdfxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// DefaultMaxDepth bounds element nesting. EQ documents are three levels
// deep (rdf:RDF, object, property); the bound only stops pathological input.
const DefaultMaxDepth = 256

// ErrNoRoot is returned for a document without a root element.
var ErrNoRoot = errors.New("rdfxml: missing root element")

// Element is a node of the generic document tree.
type Element struct {
	// Name is the element name as decoded; Space holds the namespace URI.
	Name xml.Name

	// Attrs excludes namespace declarations.
	Attrs []xml.Attr

	Children []*Element

	// Text is the concatenated character data directly inside the element.
	Text string

	// Line is the line of the start tag.
	Line int
}

// Local returns the namespace-free element name.
func (e *Element) Local() string {
	return LocalName(e.Name.Local)
}

// Attr returns the value of the first attribute whose local name is local.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if LocalName(a.Name.Local) == local {
			return a.Value, true
		}
	}
	return "", false
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	maxDepth int
}

// WithMaxDepth overrides DefaultMaxDepth. Non-positive values keep the default.
func WithMaxDepth(n int) ParseOption {
	return func(c *parseConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// Parse decodes an XML document into an Element tree and returns the root.
//
// Encodings other than UTF-8 declared in the prolog are decoded via the
// IANA charset registry. A document that is not well-formed XML is a fatal
// error; nothing about CIM semantics is checked here.
func Parse(r io.Reader, opts ...ParseOption) (*Element, error) {
	cfg := parseConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		root  *Element
		stack []*Element
		text  []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := dec.InputPos()
			return nil, fmt.Errorf("rdfxml: line %d: %w", line, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) >= cfg.maxDepth {
				line, _ := dec.InputPos()
				return nil, fmt.Errorf("rdfxml: line %d: element depth exceeds %d", line, cfg.maxDepth)
			}
			line, _ := dec.InputPos()
			el := &Element{
				Name:  t.Name,
				Attrs: withoutNamespaceDecls(t.Attr),
				Line:  line,
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("rdfxml: line %d: multiple root elements", line)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			el := stack[len(stack)-1]
			el.Text = text[len(text)-1].String()
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// withoutNamespaceDecls drops xmlns and xmlns:* attributes, copying the rest.
func withoutNamespaceDecls(attrs []xml.Attr) []xml.Attr {
	out := make([]xml.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// charsetReader decodes non-UTF-8 documents using the IANA charset registry.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
