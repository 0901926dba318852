// Package main extracts the Snowflake data type names from the Snowflake
// documentation and generates the type list of the dialect package.
//
// Usage:
//
//	go run ./scripts/gensnowflake -out=pkg/dialects/snowflake/types_gen.go
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const typesURL = "https://docs.snowflake.com/en/sql-reference/intro-summary-data-types"

var outFlag = flag.String("out", "pkg/dialects/snowflake/types_gen.go", "output file path")

// knownTypes are merged into the scraped set; some aliases only appear in
// the notes column of the page.
var knownTypes = []string{
	"NUMBER", "DECIMAL", "NUMERIC", "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "BYTEINT",
	"FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "REAL", "DECFLOAT",
	"VARCHAR", "CHAR", "CHARACTER", "STRING", "TEXT", "BINARY", "VARBINARY",
	"BOOLEAN",
	"DATE", "DATETIME", "TIME", "TIMESTAMP", "TIMESTAMP_LTZ", "TIMESTAMP_NTZ", "TIMESTAMP_TZ",
	"VARIANT", "OBJECT", "ARRAY", "MAP", "FILE", "GEOGRAPHY", "GEOMETRY", "VECTOR",
}

var typePattern = regexp.MustCompile(`^([A-Z_0-9]+)`)

func main() {
	flag.Parse()

	log.Printf("Fetching types from %s", typesURL)
	body, err := fetchURL(context.Background(), typesURL)
	if err != nil {
		log.Fatalf("failed to fetch types page: %v", err)
	}

	types, err := parseTypesPage(body)
	if err != nil {
		log.Fatalf("failed to parse types page: %v", err)
	}
	log.Printf("Extracted %d data types", len(types))

	code, err := generateTypesCode(types, time.Now())
	if err != nil {
		log.Fatalf("failed to format generated code: %v", err)
	}
	if err := os.WriteFile(*outFlag, code, 0o600); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}
	log.Printf("Generated %s", *outFlag)
}

func fetchURL(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; sfcatalog/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// parseTypesPage reads the type names from the second column of every
// table row, merged with knownTypes, lowercased and sorted.
func parseTypesPage(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	typeSet := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			extractTypesFromRow(n, typeSet)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, t := range knownTypes {
		typeSet[t] = true
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, strings.ToLower(t))
	}
	sort.Strings(types)
	return types, nil
}

// extractTypesFromRow adds the base names of a row's comma-separated,
// possibly parameterized type list.
func extractTypesFromRow(tr *html.Node, typeSet map[string]bool) {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "td" {
			cells = append(cells, c)
		}
	}
	if len(cells) < 2 {
		return
	}

	typeText := strings.ToUpper(strings.TrimSpace(extractText(cells[1])))
	for _, part := range splitTopLevel(typeText) {
		part, _, _ = strings.Cut(part, "(")
		if m := typePattern.FindStringSubmatch(strings.TrimSpace(part)); m != nil {
			typeSet[m[1]] = true
		}
	}
}

// splitTopLevel splits s on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(extractText(c))
	}
	return sb.String()
}

func generateTypesCode(types []string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by scripts/gensnowflake. DO NOT EDIT.\n")
	fmt.Fprintf(&buf, "// Source: %s\n", typesURL)
	fmt.Fprintf(&buf, "// Generated: %s\n\n", now.Format("2006-01-02"))
	buf.WriteString("package snowflake\n\n")
	buf.WriteString("// dataTypes lists the base names of the Snowflake data types, lowercased.\n")
	buf.WriteString("var dataTypes = []string{\n")

	const itemsPerLine = 5
	for i, t := range types {
		if i%itemsPerLine == 0 {
			buf.WriteString("\t")
		}
		fmt.Fprintf(&buf, "%q, ", t)
		if (i+1)%itemsPerLine == 0 {
			buf.WriteString("\n")
		}
	}
	if len(types)%itemsPerLine != 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	return format.Source(buf.Bytes())
}
