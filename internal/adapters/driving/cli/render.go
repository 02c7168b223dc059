package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/filename"
)

// previewRunes bounds the order text shown by default.
const previewRunes = 600

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// renderCase prints a case with its orders. With full set the order text
// is not shortened.
func renderCase(w io.Writer, c *domain.Case, full bool) {
	st := newStyles(w)

	fmt.Fprintf(w, "%s %s\n", st.Title.Render(c.String()), st.Muted.Render(fmt.Sprintf("(#%d)", c.ID)))
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "  %s%s\n", st.Label.Render(label), value)
	}
	row("Petitioner", c.Petitioner)
	row("Respondent", c.Respondent)
	row("Status", c.Status)
	row("Next date", c.NextDate)
	if !c.SearchedAt.IsZero() {
		row("Searched", c.SearchedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(w, "\nOrders (%d)\n", len(c.Orders))
	for _, o := range c.Orders {
		fmt.Fprintf(w, "  %s  %s\n", st.Label.Render(o.OrderDate), o.OrderText)
		switch {
		case o.HasDocument():
			fmt.Fprintf(w, "    PDF: %s%s\n", o.PDFFilename, sizeSuffix(o.PDFFilename))
			if o.PDFText == "" {
				fmt.Fprintf(w, "    %s\n", st.Muted.Render("no text extracted"))
				continue
			}
			text := o.PDFText
			if !full {
				text = preview(text, previewRunes)
			}
			fmt.Fprintln(w, st.Body.Render(text))
		case o.PDFURL != "":
			fmt.Fprintf(w, "    %s\n", st.Muted.Render("document not downloaded: "+o.PDFURL))
		}
	}
}

// sizeSuffix reports the stored size of an order document, if present.
func sizeSuffix(name string) string {
	if ingestService == nil {
		return ""
	}
	path, err := ingestService.ArtifactPath(name)
	if err != nil {
		return " (missing)"
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return " (" + filename.FormatSize(info.Size()) + ")"
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

func renderCaseList(w io.Writer, cases []domain.Case) {
	if len(cases) == 0 {
		fmt.Fprintln(w, "No cases stored.")
		return
	}
	st := newStyles(w)
	for i := range cases {
		c := &cases[i]
		fmt.Fprintf(w, "  %s  %-24s %s v. %s  %s\n",
			st.Muted.Render(fmt.Sprintf("#%-4d", c.ID)), c.String(), c.Petitioner, c.Respondent, c.Status)
	}
}

func renderSearches(w io.Writer, records []domain.SearchRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No searches yet.")
		return
	}
	st := newStyles(w)
	for i := range records {
		r := &records[i]
		when := r.SearchedAt.Local().Format("2006-01-02 15:04")
		outcome := st.Success.Render(r.Status)
		if r.Failed() {
			outcome = st.Error.Render("failed: " + r.ErrorMessage)
		}
		ref := ""
		if r.CaseID > 0 {
			ref = st.Muted.Render(fmt.Sprintf(" #%d", r.CaseID))
		}
		fmt.Fprintf(w, "  %s  %s%s  %s\n", when, r.CaseIdentifier.String(), ref, outcome)
	}
}
