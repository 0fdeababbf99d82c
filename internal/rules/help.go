package rules

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/samber/lo"
)

// HelpEntry is one line of the help listing.
type HelpEntry struct {
	Name string
	Doc  string
}

// Help is the self-documenting target: it prints a sorted, aligned
// two-column listing of every target that carries help text. Targets
// without help text are omitted.
type Help struct {
	IID     string
	Doc     string
	Entries []HelpEntry

	Cwd    string
	Stdout io.Writer
}

// Execute implements Rule
func (h *Help) Execute(ctx context.Context) error {
	entries := lo.Filter(h.Entries, func(e HelpEntry, i int) bool {
		return e.Doc != ""
	})

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	width := 0
	for _, e := range entries {
		if len(e.Name) > width {
			width = len(e.Name)
		}
	}

	for _, e := range entries {
		if _, err := fmt.Fprintf(h.Stdout, "%-*s  %s\n", width, e.Name, e.Doc); err != nil {
			return err
		}
	}

	return nil
}

// Dependencies implements Rule
func (h *Help) Dependencies() []string {
	return []string{}
}

// Inputs implements Rule
func (h *Help) Inputs() []string {
	return []string{}
}

func (h *Help) ID() string {
	return h.IID
}

func (h *Help) Help() string {
	return h.Doc
}

func (h *Help) Getwd() string {
	return h.Cwd
}

var _ Rule = &Help{}
