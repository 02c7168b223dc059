package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/scraper/stub"
	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/services"
)

// fakeIngest stores nothing and reports fixed order text.
type fakeIngest struct{}

func (fakeIngest) IngestOrderDocument(context.Context, domain.CaseIdentifier, string) (*domain.OrderDocument, error) {
	return &domain.OrderDocument{Filename: "order.pdf", Text: "order text"}, nil
}

func (fakeIngest) ExtractAndNormalizeText(context.Context, domain.DownloadedArtifact) string {
	return ""
}

func (fakeIngest) ArtifactPath(string) (string, error) {
	return "", domain.ErrNotFound
}

// setupTestServices wires in-memory services and returns a cleanup that
// restores the previous wiring and flag values.
func setupTestServices() func() {
	oldCases, oldIngest, oldSettings, oldMaint := caseService, ingestService, settingsService, maintenanceService

	store := memory.NewCaseStore()
	caseService = services.NewCaseService(store, stub.New(), fakeIngest{})
	ingestService = fakeIngest{}
	settingsService = services.NewSettingsService(memory.NewConfigStore())
	maintenanceService = services.NewMaintenanceService(store, ":memory:")

	return func() {
		caseService, ingestService, settingsService, maintenanceService = oldCases, oldIngest, oldSettings, oldMaint
		resetFlags()
	}
}

func resetFlags() {
	fetchJSON, fetchFull = false, false
	caseJSON, caseFull = false, false
	recentLimit = 20
	batchConcurrency = defaultBatchConcurrency
	initSeed, initReset = false, false
	serveAddr = ""
	mcpPort = 0
	versionShort = false
	verbose = false
}

// run executes the root command with args and returns its output.
func run(ctx context.Context, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	// cobra only fills a subcommand's context when it is nil, so a context
	// from an earlier run would otherwise stick.
	setContext(ctx, rootCmd)
	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func setContext(ctx context.Context, cmd *cobra.Command) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(ctx, sub)
	}
}
