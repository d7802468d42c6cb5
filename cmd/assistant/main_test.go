package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"childcare-assistant/internal/models"
)

// ==========================
// Command definitions
// ==========================

func TestRootCmd_Subcommands(t *testing.T) {
	want := map[string]bool{"serve": false, "ask [question]": false, "ingest-prices": false, "index-providers": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Use]; ok {
			want[c.Use] = true
		}
	}
	for use, found := range want {
		assert.True(t, found, "missing subcommand %q", use)
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, ingestPricesCmd.Flags().Lookup("file"))
	assert.NotNil(t, indexProvidersCmd.Flags().Lookup("page-size"))
}

func TestAskRequest(t *testing.T) {
	require.NoError(t, askCmd.Flags().Set("state", "wv"))
	require.NoError(t, askCmd.Flags().Set("county-fips", "54039"))
	require.NoError(t, askCmd.Flags().Set("age", "toddler"))
	t.Cleanup(func() {
		_ = askCmd.Flags().Set("state", "")
		_ = askCmd.Flags().Set("county-fips", "")
		_ = askCmd.Flags().Set("age", "")
	})

	req := askRequest([]string{"how", "much", "is", "care?"})
	assert.Equal(t, "WV", req.Jurisdiction)
	assert.Equal(t, "how much is care?", req.Message)
	assert.Equal(t, "54039", req.Hints.SubRegionCode)
	assert.Equal(t, "toddler", req.Hints.Age)
}

// ==========================
// Output
// ==========================

func TestPrintEnvelope(t *testing.T) {
	answer := "Here are 0 providers in PA:"
	var buf bytes.Buffer
	require.NoError(t, printEnvelope(&buf, &models.Envelope{Intent: models.IntentFindProvider, Answer: &answer}))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "FIND_PROVIDER", got["intent"])

	buf.Reset()
	err := printEnvelope(&buf, &models.Envelope{Intent: models.IntentCost, Error: "no prices", Kind: "PRICE_NOT_FOUND"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRICE_NOT_FOUND")
	assert.Contains(t, buf.String(), "no prices")
}
