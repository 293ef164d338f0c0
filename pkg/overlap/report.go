package overlap

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport writes a human-readable grouping report: a header with the
// group count, then one block per group listing its member region names.
func WriteReport(w io.Writer, groups [][]string) error {
	if _, err := fmt.Fprintf(w, "Non-overlapping region groups (%d groups)\n", len(groups)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("=", 50)); err != nil {
		return err
	}
	for i, names := range groups {
		if _, err := fmt.Fprintf(w, "\nGroup %d:\n", i); err != nil {
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "  - %s\n", name); err != nil {
				return err
			}
		}
	}
	return nil
}
