package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/prodpick/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/products-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("products-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders products as an HTML table that importer.ParseHTMLProducts
// reads back.
func ExportHTML(products []model.Product, title string) string {
	if title == "" {
		title = "Products"
	}
	escapedTitle := html.EscapeString(title)

	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html>\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", escapedTitle)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", escapedTitle)
	b.WriteString("<table>\n")
	b.WriteString("    <tr><th>Product ID</th><th>Title</th><th>Image</th></tr>\n")

	for _, p := range products {
		image := ""
		if p.ImageURL != "" {
			image = fmt.Sprintf("<img src=\"%s\" alt=\"\">", html.EscapeString(p.ImageURL))
		}
		fmt.Fprintf(&b,
			"    <tr><td>%d</td><td>%s</td><td>%s</td></tr>\n",
			p.ID,
			html.EscapeString(p.Title),
			image,
		)
	}

	// Footer
	b.WriteString("</table>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}
