// pkg/winget/parser.go - parsing of winget search output into package records.
//
// winget prints a human-oriented table: a header line ("Name Id Version
// [Match] Source"), a dashed separator, then one row per hit, with columns
// aligned by padding. There is no machine-readable mode the packer can rely
// on across winget versions, so the parser locates the column offsets from
// the header and slices each data row accordingly.

package winget

import (
	"fmt"
	"regexp"
	"strings"
)

// PackageRecord is the structured result of one catalog search hit.
type PackageRecord struct {
	Name    string
	ID      string
	Version string
	Source  string
}

var (
	headerPattern  = regexp.MustCompile(`Name\s+Id\s+Version\s+(?:Match\s+)?Source`)
	fieldSeparator = regexp.MustCompile(`\s{2,}`)
)

// Parse converts raw winget search output into package records. It is total:
// any input, including empty or garbled text, yields an empty or partial
// result plus diagnostic notes for the caller to log. It never returns an
// error.
func Parse(raw string) ([]PackageRecord, []string) {
	var records []PackageRecord
	var notes []string

	lines := strings.Split(strings.TrimSpace(raw), "\n")
	headerIndex := -1
	for i, line := range lines {
		if headerPattern.MatchString(line) {
			headerIndex = i
			break
		}
	}
	if headerIndex == -1 || headerIndex+1 >= len(lines) ||
		!strings.HasPrefix(strings.TrimSpace(lines[headerIndex+1]), "---") {
		notes = append(notes, "search output format not recognized or no data rows found")
		return records, notes
	}

	// Column labels are preceded by a space so a label embedded in a package
	// name cannot match.
	header := lines[headerIndex]
	idCol := strings.Index(header, " Id ")
	versionCol := indexFrom(header, " Version ", idCol)
	sourceCol := indexFrom(header, " Source", versionCol)
	if idCol <= 0 || versionCol <= 0 || sourceCol <= 0 {
		notes = append(notes, "could not determine column offsets from header line")
		return records, notes
	}

	dataRows := 0
	for _, line := range lines[headerIndex+2:] {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "---") {
			continue
		}
		dataRows++

		cut := idCol
		if cut > len(line) {
			cut = len(line)
		}
		name := strings.TrimSpace(line[:cut])
		fields := splitFields(strings.TrimSpace(line[cut:]))

		if len(fields) >= 2 {
			id := fields[0]
			version := trimVersionTag(fields[1])
			source := "N/A"
			switch {
			case len(fields) >= 4:
				// A Match column pushes Source to the fourth field.
				source = fields[3]
			case len(fields) == 3:
				source = fields[2]
			}
			if name != "" && id != "" {
				records = append(records, PackageRecord{Name: name, ID: id, Version: version, Source: source})
			}
			continue
		}

		// Low-confidence fallback for rows the column slicing cannot handle:
		// take the last whitespace-separated token as the ID if it looks like
		// one, and the rest as the name.
		tokens := strings.Fields(trimmed)
		if len(tokens) >= 2 {
			id := tokens[len(tokens)-1]
			fallbackName := strings.Join(tokens[:len(tokens)-1], " ")
			if fallbackName != "" && strings.Contains(id, ".") {
				notes = append(notes, fmt.Sprintf("low-confidence parse of row: %q", trimmed))
				records = append(records, PackageRecord{Name: fallbackName, ID: id, Version: "N/A", Source: "N/A"})
			}
		}
	}

	if len(records) == 0 && dataRows > 0 {
		notes = append(notes, "data rows present but no applications could be extracted")
	}
	return records, notes
}

// trimVersionTag strips the " Tag: ..." suffix winget appends to versions of
// flagged packages (featured, unknown publisher).
func trimVersionTag(version string) string {
	if i := strings.Index(version, " Tag: "); i != -1 {
		return strings.TrimSpace(version[:i])
	}
	return version
}

// splitFields splits on runs of two or more whitespace characters, dropping
// empty fields.
func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	parts := fieldSeparator.Split(s, -1)
	fields := parts[:0]
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// indexFrom finds sub in s at or after offset from, returning an absolute
// offset or -1.
func indexFrom(s, sub string, from int) int {
	if from < 0 || from >= len(s) {
		return -1
	}
	i := strings.Index(s[from:], sub)
	if i == -1 {
		return -1
	}
	return from + i
}
