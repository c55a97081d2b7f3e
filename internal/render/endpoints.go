// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/pdiddy/company-dns/internal/companydns"
)

// EndpointsMarkdown writes one GFM table per API version, in the order the
// endpoints are given. Pipes in descriptions are escaped.
func EndpointsMarkdown(endpoints []companydns.Endpoint, baseURL string, w io.Writer) {
	var version string
	for _, e := range endpoints {
		if e.Version != version {
			if version != "" {
				fmt.Fprintln(w)
			}
			version = e.Version
			fmt.Fprintf(w, "## %s\n\n", version)
			fmt.Fprintln(w, "| Endpoint | Path | Description |")
			fmt.Fprintln(w, "|---|---|---|")
		}
		path := "/" + e.Version + e.Path
		if baseURL != "" {
			path = strings.TrimRight(baseURL, "/") + path
		}
		fmt.Fprintf(w, "| %s | `%s` | %s |\n", cell(e.Name), path, cell(e.Description))
	}
}

// EndpointsHTML renders the Markdown tables to an HTML fragment.
func EndpointsHTML(endpoints []companydns.Endpoint, baseURL string, w io.Writer) error {
	var src bytes.Buffer
	EndpointsMarkdown(endpoints, baseURL, &src)

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	if err := md.Convert(src.Bytes(), w); err != nil {
		return fmt.Errorf("rendering endpoint docs: %w", err)
	}
	return nil
}

// FormatEndpoints writes the catalog as a plain text table.
func FormatEndpoints(endpoints []companydns.Endpoint, w io.Writer) {
	if len(endpoints) == 0 {
		fmt.Fprintln(w, "No endpoints.")
		return
	}
	fmt.Fprintf(w, "%-7s  %-30s  %s\n", "Version", "Endpoint", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range endpoints {
		fmt.Fprintf(w, "%-7s  %-30s  %s\n", e.Version, e.Name, "/"+e.Version+e.Path)
	}
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
