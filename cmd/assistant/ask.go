package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"childcare-assistant/internal/app"
	"childcare-assistant/internal/models"
)

var askOpts struct {
	state      string
	intent     string
	county     string
	countyFips string
	age        string
	setting    string
	metric     string
	units      string
	cityOrZip  string
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the command line",
	Example: `  assistant ask "how much is infant care in Allegheny County?"
  assistant ask --intent COST --county-fips 42003 --age infant`,
	RunE: runAsk,
}

func init() {
	f := askCmd.Flags()
	f.StringVar(&askOpts.state, "state", "", "jurisdiction code (default from config)")
	f.StringVar(&askOpts.intent, "intent", "", "skip classification and use this intent")
	f.StringVar(&askOpts.county, "county", "", "county name hint")
	f.StringVar(&askOpts.countyFips, "county-fips", "", "county FIPS hint")
	f.StringVar(&askOpts.age, "age", "", "age group hint")
	f.StringVar(&askOpts.setting, "setting", "", "care setting hint")
	f.StringVar(&askOpts.metric, "metric", "", "median or p75")
	f.StringVar(&askOpts.units, "units", "", "weekly or monthly")
	f.StringVar(&askOpts.cityOrZip, "city", "", "city or ZIP for provider lookups")
}

func askRequest(args []string) *models.ChatRequest {
	return &models.ChatRequest{
		Jurisdiction: strings.ToUpper(askOpts.state),
		Message:      strings.Join(args, " "),
		Intent:       askOpts.intent,
		Hints: models.Hints{
			SubRegionCode: askOpts.countyFips,
			SubRegionName: askOpts.county,
			Age:           askOpts.age,
			Setting:       askOpts.setting,
			Metric:        askOpts.metric,
			Units:         askOpts.units,
			CityOrZip:     askOpts.cityOrZip,
		},
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	res, err := app.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer res.Close()

	env := res.Pipeline().Answer(cmd.Context(), askRequest(args))
	return printEnvelope(cmd.OutOrStdout(), env)
}

// printEnvelope writes env as indented JSON and turns a failure envelope
// into a non-zero exit.
func printEnvelope(w io.Writer, env *models.Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return err
	}
	if env.Failed() {
		return fmt.Errorf("%s: %s", env.Kind, env.Error)
	}
	return nil
}
