package descriptor

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mojo-runtime/mojo/internal/container"
)

// DomainRef is a parsed [domains] reference.
type DomainRef struct {
	Column int
	Labels int    // Declared label count
	File   string // Entry name relative to "domains/"
}

// ParseDomainRef parses a raw reference "<n_labels> <file>" for a column.
func ParseDomainRef(col int, raw string) (DomainRef, error) {
	count, file, ok := strings.Cut(strings.TrimSpace(raw), " ")
	file = strings.TrimSpace(file)
	if !ok || file == "" {
		return DomainRef{}, formatErr(EntryName, fmt.Sprintf("invalid domain reference for column %d", col), raw)
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return DomainRef{}, formatErr(EntryName, fmt.Sprintf("invalid label count for column %d", col), raw)
	}
	return DomainRef{Column: col, Labels: n, File: file}, nil
}

// Refs returns the parsed domain references ordered by column.
func (s *Setup) Refs() ([]DomainRef, error) {
	cols := make([]int, 0, len(s.DomainRefs))
	for col := range s.DomainRefs {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	refs := make([]DomainRef, 0, len(cols))
	for _, col := range cols {
		ref, err := ParseDomainRef(col, s.DomainRefs[col])
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// LoadDomains resolves every domain reference of setup against the container.
// The result has one entry per column; numeric columns have a nil domain.
func LoadDomains(ctx context.Context, c container.Container, setup *Setup) ([][]string, error) {
	refs, err := setup.Refs()
	if err != nil {
		return nil, err
	}

	domains := make([][]string, len(setup.Columns))
	for _, ref := range refs {
		labels, err := readDomain(ctx, c, ref)
		if err != nil {
			return nil, err
		}
		domains[ref.Column] = labels
	}
	return domains, nil
}

func readDomain(ctx context.Context, c container.Container, ref DomainRef) ([]string, error) {
	name := DomainsFolder + ref.File
	lines, err := c.ReadText(ctx, name)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, ref.Labels)
	for _, line := range lines {
		if line != "" {
			labels = append(labels, line)
		}
	}
	if len(labels) != ref.Labels {
		return nil, formatErr(name,
			fmt.Sprintf("column %d declares %d labels, file has %d", ref.Column, ref.Labels, len(labels)), "")
	}
	return labels, nil
}
