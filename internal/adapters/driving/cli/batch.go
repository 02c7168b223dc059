package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// defaultBatchConcurrency is how many lookups run at once by default.
const defaultBatchConcurrency = 4

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Look up many cases from a file",
	Long: `Reads case identifiers from a file, one per line, and looks each one up.
Lines may be written as "TYPE NUMBER YEAR" or "TYPE/NUMBER/YEAR"; blank lines
and lines starting with # are skipped. Use - to read from standard input.

Every line is attempted; the command fails if any lookup failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", defaultBatchConcurrency,
		"maximum lookups in flight")
	rootCmd.AddCommand(batchCmd)
}

// batchLine is one parsed input line.
type batchLine struct {
	line       int
	caseType   string
	caseNumber string
	filingYear string
}

func (b batchLine) String() string {
	return b.caseType + "/" + b.caseNumber + "/" + b.filingYear
}

// batchResult is the outcome of one lookup.
type batchResult struct {
	input  batchLine
	caseID int64
	err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errors.New("case service not configured")
	}
	if batchConcurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", batchConcurrency)
	}

	in := cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening batch file: %w", err)
		}
		defer f.Close()
		in = f
	}

	lines, err := parseBatch(in)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		cmd.Println("No cases to look up.")
		return nil
	}

	results := make([]batchResult, len(lines))
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(batchConcurrency)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	for i, l := range lines {
		g.Go(func() error {
			res := batchResult{input: l}
			c, err := caseService.Search(ctx, l.caseNumber, l.caseType, l.filingYear)
			if err != nil {
				res.err = err
			} else {
				res.caseID = c.ID
			}
			results[i] = res

			mu.Lock()
			printBatchResult(out, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	cmd.Printf("\n%d looked up, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(results))
	}
	return nil
}

func printBatchResult(w io.Writer, r batchResult) {
	st := newStyles(w)
	if r.err != nil {
		fmt.Fprintf(w, "  %s %s (line %d): %v\n", st.Error.Render("FAIL"), r.input, r.input.line, r.err)
		return
	}
	fmt.Fprintf(w, "  %s %s -> #%d\n", st.Success.Render("OK  "), r.input, r.caseID)
}

// parseBatch reads identifiers from r.
func parseBatch(r io.Reader) ([]batchLine, error) {
	var lines []batchLine
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 3 {
			fields = splitSlashed(text)
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected TYPE NUMBER YEAR, got %q", n, text)
		}
		lines = append(lines, batchLine{line: n, caseType: fields[0], caseNumber: fields[1], filingYear: fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading batch input: %w", err)
	}
	return lines, nil
}

// splitSlashed splits TYPE/NUMBER/YEAR. The number may itself contain
// slashes, so the type is cut at the first slash and the year at the last.
func splitSlashed(s string) []string {
	caseType, rest, ok := strings.Cut(s, "/")
	if !ok {
		return nil
	}
	i := strings.LastIndex(rest, "/")
	if i <= 0 {
		return nil
	}
	return []string{caseType, rest[:i], rest[i+1:]}
}
