package conformance

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata from the fixture front matter
type Metadata struct {
	Description string               `yaml:"description"`
	Since       string               `yaml:"since"`
	Negative    *NegativeExpectation `yaml:"negative"`
	Expect      string               `yaml:"expect"`
}

type NegativeExpectation struct {
	Kind string `yaml:"kind"` // lexical, syntax or context
}

const frontMatterDelim = "---"

// ParseFixture splits a fixture into its metadata and the source to parse.
// A file that does not open with a "---" line has no metadata. The returned
// source keeps one blank line per header line so error positions match the
// file.
func ParseFixture(source string) (Metadata, string, error) {
	var meta Metadata

	first, rest, _ := strings.Cut(source, "\n")
	if strings.TrimSpace(first) != frontMatterDelim {
		return meta, source, nil
	}

	var header strings.Builder
	consumed := 1
	for {
		line, next, more := strings.Cut(rest, "\n")
		if strings.TrimRight(line, " \t\r") == frontMatterDelim {
			if err := yaml.Unmarshal([]byte(header.String()), &meta); err != nil {
				return meta, "", fmt.Errorf("invalid front matter: %w", err)
			}
			return meta, strings.Repeat("\n", consumed+1) + next, nil
		}
		if !more {
			return meta, "", fmt.Errorf("unterminated front matter")
		}
		header.WriteString(line)
		header.WriteByte('\n')
		consumed++
		rest = next
	}
}
