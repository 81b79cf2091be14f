package descriptor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mojo-runtime/mojo/internal/container"
)

// Read loads and parses the descriptor entry of a container.
func Read(ctx context.Context, c container.Container) (*Setup, error) {
	lines, err := c.ReadText(ctx, EntryName)
	if err != nil {
		return nil, err
	}
	return Parse(lines)
}

// Parse parses descriptor lines. Lines are trimmed; blank lines and lines
// starting with '#' are skipped.
func Parse(lines []string) (*Setup, error) {
	p := &parser{
		setup: &Setup{
			Info:       make(map[string]any, 20),
			Raw:        make(map[string]string, 20),
			DomainRefs: make(map[int]string),
		},
	}
	return p.parse(lines)
}

type section int

const (
	inPreamble section = iota
	inInfo
	inColumns
	inDomains
)

type parser struct {
	setup   *Setup
	section section
	ncols   int
	icol    int
}

func (p *parser) parse(lines []string) (*Setup, error) {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var err error
		switch p.section {
		case inPreamble:
			err = p.parsePreamble(line)
		case inInfo:
			err = p.parseInfo(line)
		case inColumns:
			err = p.parseColumn(line)
		case inDomains:
			err = p.parseDomain(line)
		}
		if err != nil {
			return nil, err
		}
	}

	if p.section != inDomains {
		return nil, formatErr(EntryName, "some sections are missing", "")
	}
	if p.icol != p.ncols {
		return nil, formatErr(EntryName,
			fmt.Sprintf("expected %d columns, got %d", p.ncols, p.icol), "")
	}
	algo, ok := p.setup.Raw[KeyAlgorithm]
	if !ok {
		return nil, formatErr(EntryName, "`algorithm` key is missing", "")
	}
	p.setup.Algorithm = algo
	p.setup.Version = p.setup.Raw[KeyVersion]
	return p.setup, nil
}

func (p *parser) parsePreamble(line string) error {
	if line != sectionInfo {
		return formatErr(EntryName, "unexpected line before the [info] section", line)
	}
	p.section = inInfo
	return nil
}

func (p *parser) parseInfo(line string) error {
	if line == sectionColumns {
		raw, ok := p.setup.Info[KeyColumns]
		if !ok {
			return formatErr(EntryName, "`n_columns` key is missing", "")
		}
		n, ok := raw.(int64)
		if !ok || n < 0 {
			return formatErr(EntryName, "`n_columns` is not a non-negative integer", fmt.Sprint(raw))
		}
		p.ncols = int(n)
		p.setup.Columns = make([]string, 0, p.ncols)
		p.section = inColumns
		return nil
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return formatErr(EntryName, "cannot read a key-value pair", line)
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	p.setup.Raw[key] = value
	if key == KeyUUID {
		p.setup.Info[key] = value
	} else {
		p.setup.Info[key] = ParseValue(value)
	}
	return nil
}

func (p *parser) parseColumn(line string) error {
	if line == sectionDomains {
		p.section = inDomains
		return nil
	}
	if line == sectionInfo || line == sectionColumns {
		return formatErr(EntryName, "section out of order", line)
	}
	if p.icol >= p.ncols {
		return formatErr(EntryName, "`n_columns` is less than the actual number of columns", line)
	}
	p.setup.Columns = append(p.setup.Columns, line)
	p.icol++
	return nil
}

func (p *parser) parseDomain(line string) error {
	idx, ref, ok := strings.Cut(line, ":")
	if !ok {
		return formatErr(EntryName, "invalid domain declaration", line)
	}
	col, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil {
		return formatErr(EntryName, "invalid domain column index", line)
	}
	if _, dup := p.setup.DomainRefs[col]; dup {
		return formatErr(EntryName, fmt.Sprintf("column %d has more than one domain declared", col), line)
	}
	if col < 0 || col >= p.ncols {
		return formatErr(EntryName, fmt.Sprintf("invalid column %d for domain", col), line)
	}
	p.setup.DomainRefs[col] = strings.TrimSpace(ref)
	return nil
}
