package importer

import (
	"io"
	"strconv"
	"strings"

	"github.com/nikbrunner/prodpick/internal/model"
	"golang.org/x/net/html"
)

// ParseHTMLProducts reads products from the rows of HTML tables.
// Each row holds the cells id, title and image; the image cell is either an
// <img src> or plain text. Header rows and rows whose first cell is not a
// number are skipped.
func ParseHTMLProducts(r io.Reader) ([]model.Product, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	products := []model.Product{}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "tr") {
			if p, ok := parseRow(n); ok {
				products = append(products, p)
			}
			return // Rows don't nest
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return products, nil
}

// parseRow converts a <tr> into a product.
func parseRow(tr *html.Node) (model.Product, bool) {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch strings.ToLower(c.Data) {
		case "th":
			return model.Product{}, false
		case "td":
			cells = append(cells, c)
		}
	}
	if len(cells) < 2 {
		return model.Product{}, false
	}

	id, err := strconv.Atoi(getTextContent(cells[0]))
	if err != nil {
		return model.Product{}, false
	}

	p := model.Product{
		ID:    id,
		Title: getTextContent(cells[1]),
	}
	if len(cells) > 2 {
		p.ImageURL = imageSource(cells[2])
	}
	return p, true
}

// imageSource returns the src of the first <img> in n, falling back to
// the cell text.
func imageSource(n *html.Node) string {
	if img := findElement(n, "img"); img != nil {
		if src := getAttr(img, "src"); src != "" {
			return src
		}
	}
	if a := findElement(n, "a"); a != nil {
		if href := getAttr(a, "href"); href != "" {
			return href
		}
	}
	return getTextContent(n)
}

// findElement returns the first descendant element named tag.
func findElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, tag) {
			return c
		}
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
