package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"childcare-assistant/internal/app"
	"childcare-assistant/internal/common/database"
	"childcare-assistant/internal/ingest"
	"childcare-assistant/internal/store/postgres"
	"childcare-assistant/internal/store/search"
)

var (
	ingestFile   string
	ingestDryRun bool

	indexState    string
	indexPageSize int
)

var ingestPricesCmd = &cobra.Command{
	Use:   "ingest-prices",
	Short: "Load county price statistics from a CSV file",
	Long: `Loads a price CSV with the columns

  county_fips,state_fips,state,county,year,age_group,setting,p10,p25,median,p75,p90,source

Unknown age or setting labels reject the row. Re-running with the same file
leaves the tables unchanged.`,
	RunE: runIngestPrices,
}

var indexProvidersCmd = &cobra.Command{
	Use:   "index-providers",
	Short: "Copy a jurisdiction's providers from Postgres into the search index",
	RunE:  runIndexProviders,
}

func init() {
	ingestPricesCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "price CSV path")
	ingestPricesCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "parse and report without writing")
	_ = ingestPricesCmd.MarkFlagRequired("file")

	indexProvidersCmd.Flags().StringVar(&indexState, "state", "", "jurisdiction to index (default from config)")
	indexProvidersCmd.Flags().IntVar(&indexPageSize, "page-size", ingest.DefaultPageSize, "rows per bulk request")
}

func runIngestPrices(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	f, err := os.Open(ingestFile)
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := ingest.ParsePrices(f)
	if err != nil {
		return err
	}
	for _, r := range file.Rejected {
		log.Warn("row rejected", map[string]interface{}{"line": r.Line, "reason": r.Reason})
	}
	log.Info("price file parsed", map[string]interface{}{
		"rows":     len(file.Rows),
		"rejected": len(file.Rejected),
	})
	if ingestDryRun {
		return nil
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	res, err := ingest.LoadPrices(cmd.Context(), pg.DB, file.Rows)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	log.Info("prices loaded", map[string]interface{}{
		"countiesInserted": res.CountiesInserted,
		"pricesUpserted":   res.PricesUpserted,
	})
	return nil
}

func runIndexProviders(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	state := indexState
	if state == "" {
		state = cfg.Assistant.DefaultJurisdiction
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	es, err := app.OpenSearch(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	index := search.NewProviderIndex(es.Client, cfg.Assistant.ProvidersIndex)
	n, err := ingest.IndexProviders(cmd.Context(), postgres.NewProviderStore(pg.DB), index, state, indexPageSize, log)
	if err != nil {
		return err
	}
	log.Info("providers indexed", map[string]interface{}{"state": state, "accepted": n, "index": cfg.Assistant.ProvidersIndex})
	return nil
}
