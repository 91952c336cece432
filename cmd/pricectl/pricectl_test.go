package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/vitrina/internal/pricing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecommend_Text(t *testing.T) {
	out, err := execute(t, "recommend", "--cost", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "150.00  *")
	assert.Contains(t, out, "suggested 150.00 (mid, margin 50%, reason low_ticket, endings 9,0)")
}

func TestRecommend_JSONWithOverrides(t *testing.T) {
	out, err := execute(t, "recommend", "--cost", "12", "--margin-mid", "1", "--endings", "5", "-o", "json")
	require.NoError(t, err)

	var rec pricing.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, pricing.TierMid, rec.AppliedTier)
	assert.InDelta(t, 25, rec.Suggested, 1e-9)
	assert.Equal(t, []string{"5"}, rec.Endings)
}

func TestRecommend_EmptyEndingsDisableRounding(t *testing.T) {
	out, err := execute(t, "recommend", "--cost", "33.3", "--endings", "", "-o", "json")
	require.NoError(t, err)

	var rec pricing.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.InDelta(t, 49.95, rec.Suggested, 1e-9)
	assert.Empty(t, rec.Endings)
}

func TestRecommend_PremiumCategory(t *testing.T) {
	out, err := execute(t, "recommend", "--cost", "400", "--category", "  PERFUMERIA ", "-o", "json")
	require.NoError(t, err)

	var rec pricing.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, pricing.TierPremium, rec.AppliedTier)
	assert.Equal(t, pricing.ReasonPremiumCategory, rec.Reason)
	assert.InDelta(t, 680, rec.Suggested, 1e-9)
}

func TestRecommend_PricingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("premium_categories: [Papelería]\nrule:\n  premium: 1\n"), 0o600))

	out, err := execute(t, "recommend", "--cost", "50", "--category", "papeleria", "--pricing-file", path, "-o", "json")
	require.NoError(t, err)

	var rec pricing.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, pricing.TierPremium, rec.AppliedTier)
	assert.InDelta(t, 100, rec.Suggested, 1e-9)
}

func TestRecommend_Errors(t *testing.T) {
	_, err := execute(t, "recommend", "--cost", "0")
	var verr *pricing.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "cost_price", verr.Field)

	_, err = execute(t, "recommend", "--cost", "10", "--margin-low", "-2")
	assert.ErrorIs(t, err, pricing.ErrValidation)

	_, err = execute(t, "recommend")
	assert.Error(t, err)

	_, err = execute(t, "recommend", "--cost", "10", "-o", "xml")
	assert.Error(t, err)
}

func TestPretty(t *testing.T) {
	out, err := execute(t, "pretty", "1243")
	require.NoError(t, err)
	assert.Equal(t, "1240\n", out)

	out, err = execute(t, "pretty", "187", "--endings", "95")
	require.NoError(t, err)
	assert.Equal(t, "195\n", out)

	_, err = execute(t, "pretty", "abc")
	assert.Error(t, err)
}

func TestCombo(t *testing.T) {
	out, err := execute(t, "combo", "--item", "10:2", "--item", "5:1", "--item", "x:3", "--item", "7", "--packaging", "3", "--recommend", "-o", "json")
	require.NoError(t, err)

	var result comboResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 25, result.Breakdown.ItemsCost, 1e-9)
	assert.InDelta(t, 28, result.Breakdown.TotalCost, 1e-9)
	require.NotNil(t, result.Recommendation)
	assert.InDelta(t, 40, result.Recommendation.Suggested, 1e-9)
}

func TestCombo_EmptyTotalCannotBeRecommended(t *testing.T) {
	out, err := execute(t, "combo")
	require.NoError(t, err)
	assert.Contains(t, out, "total     0.00")

	_, err = execute(t, "combo", "--recommend")
	assert.ErrorIs(t, err, pricing.ErrValidation)
}
