package taxid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validINNs = []string{"7707083893", "7736207543", "7712345671", "5027000007", "500100732259"}

func TestValidINN(t *testing.T) {
	for _, inn := range validINNs {
		t.Run(inn, func(t *testing.T) {
			assert.True(t, ValidINN(inn))
		})
	}

	invalid := []string{"", "123", "7707083890", "77070838931", "770708389a", "500100732250"}
	for _, inn := range invalid {
		t.Run("invalid_"+inn, func(t *testing.T) {
			assert.False(t, ValidINN(inn))
		})
	}
}

func TestValidINN_SingleDigitMutation(t *testing.T) {
	for _, inn := range []string{"7707083893", "7736207543", "500100732259"} {
		for pos := 0; pos < len(inn); pos++ {
			for d := byte('0'); d <= '9'; d++ {
				if inn[pos] == d {
					continue
				}
				mutated := []byte(inn)
				mutated[pos] = d
				assert.False(t, ValidINN(string(mutated)), "mutation %s of %s accepted", mutated, inn)
			}
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Result
		suspect bool
	}{
		{"valid10", "7707083893", Result{Value: "7707083893", Kind: KindINN10, Valid: true}, false},
		{"valid12", "500100732259", Result{Value: "500100732259", Kind: KindINN12, Valid: true}, false},
		{"ocr letter o", "77О7О83893", Result{Value: "7707083893", Kind: KindINN10, Valid: true}, false},
		{"bad checksum kept", "7707083890", Result{Value: "7707083890", Kind: KindINN10, Valid: false}, true},
		{"wrong length", "12345", Result{Value: "12345", Kind: KindUnknown}, false},
		{"garbage", "77x7083893", Result{Value: "", Kind: KindUnknown}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.suspect, got.Suspect())
		})
	}
}

func TestValidKPP(t *testing.T) {
	assert.True(t, ValidKPP("773601001"))
	assert.True(t, ValidKPP("7736AB001"))
	assert.False(t, ValidKPP("77360100"))
	assert.False(t, ValidKPP("77360100x"))
}

func TestAccounts(t *testing.T) {
	const bik = "044525225"
	require.True(t, ValidBIK(bik))
	assert.False(t, ValidBIK("144525225"))
	assert.False(t, ValidBIK("04452522"))

	assert.True(t, ValidAccount("40702810938000000001", bik))
	assert.False(t, ValidAccount("40702810938000000002", bik))
	assert.False(t, ValidAccount("4070281093800000000", bik))

	assert.True(t, ValidCorrAccount("30101810400000000225", bik))
	assert.False(t, ValidCorrAccount("30101810400000000226", bik))
}
