package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

func TestDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"01.01.2025", "01.01.2025"},
		{"1.1.2025", "01.01.2025"},
		{"01/02/2025", "01.02.2025"},
		{"01-02-2025", "01.02.2025"},
		{"15.03.25", "15.03.2025"},
		{"01.01.69", "01.01.2069"},
		{"01.01.70", "01.01.1970"},
		{"31/12/99", "31.12.1999"},
		{"5 мая 00", "05.05.2000"},
		{"2025-03-15", "15.03.2025"},
		{"15 марта 2025 г.", "15.03.2025"},
		{"1 января 2025", "01.01.2025"},
		{"«5» мая 2024 года", "05.05.2024"},
		{"3 дек. 2024", "03.12.2024"},
		{"15 March 2025", "15.03.2025"},
		{"March 15, 2025", "15.03.2025"},
		{"29.02.2024", "29.02.2024"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Date(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_Idempotent(t *testing.T) {
	for _, raw := range []string{"01.01.2025", "2025-12-31", "7 июля 2023", "31/12/99"} {
		once, err := Date(raw)
		require.NoError(t, err, raw)
		twice, err := Date(once)
		require.NoError(t, err, once)
		assert.Equal(t, once, twice)
	}
}

func TestDate_Errors(t *testing.T) {
	for _, raw := range []string{"", "31.02.2025", "32.01.2025", "01.13.2025", "5 брюмера 2025", "вчера"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Date(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrNormalization))
		})
	}
}

func TestAmount_SameCanonicalValue(t *testing.T) {
	var got []string
	for _, raw := range []string{"10 000,00", "10,000.00", "10000.00"} {
		v, err := Amount(raw)
		require.NoError(t, err, raw)
		got = append(got, v)
	}
	assert.Equal(t, []string{"10000.00", "10000.00", "10000.00"}, got)
}

func TestAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"10000", "10000.00"},
		{"10 000", "10000.00"},
		{"10 000,5", "10000.50"},
		{"1 234 567,89 руб.", "1234567.89"},
		{"1.234.567,89", "1234567.89"},
		{"1,234,567", "1234567.00"},
		{"10,000", "10000.00"},
		{"10.000", "10000.00"},
		{"1234,567", "1234567.00"},
		{"1 234,567", "1234567.00"},
		{"12345.678", "12345678.00"},
		{"1234,5678", "1234.57"},
		{"12,5", "12.50"},
		{"0.99", "0.99"},
		{"5 000 ₽", "5000.00"},
		{"10'000.00", "10000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Amount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			again, err := Amount(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestAmount_Errors(t *testing.T) {
	for _, raw := range []string{"", "руб.", "1,00.50", "1.2.3", "12#00", "1.000.00,5,0"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Amount(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrNormalization))
		})
	}
}

func TestText(t *testing.T) {
	got, err := Text("  ООО  \"Ромашка\",\n ", 0)
	require.NoError(t, err)
	assert.Equal(t, `ООО "Ромашка"`, got)

	long := strings.Repeat("оплата ", 100)
	got, err = Text(long, 500)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), 503)

	_, err = Text(" ;, ", 0)
	assert.ErrorIs(t, err, common.ErrNormalization)
}

func TestNumber(t *testing.T) {
	got, err := Number("12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", got)

	got, err = Number("А-17/2025.")
	require.NoError(t, err)
	assert.Equal(t, "А-17/2025", got)

	_, err = Number("#!")
	assert.ErrorIs(t, err, common.ErrNormalization)
}

func TestDigitsAndKPP(t *testing.T) {
	got, err := Digits("4070 2810 9380 0000 0001", 20)
	require.NoError(t, err)
	assert.Equal(t, "40702810938000000001", got)

	_, err = Digits("0445252", 9)
	assert.ErrorIs(t, err, common.ErrNormalization)

	kpp, err := KPP("77360100О")
	require.NoError(t, err)
	assert.Equal(t, "773601000", kpp)

	_, err = KPP("7736010")
	assert.ErrorIs(t, err, common.ErrNormalization)
}

func TestCurrency(t *testing.T) {
	for raw, want := range map[string]string{"руб.": "RUB", "RUR": "RUB", "usd": "USD", "€": "EUR", "KZT": "KZT"} {
		got, err := Currency(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := Currency("тугрики")
	assert.ErrorIs(t, err, common.ErrNormalization)
}
