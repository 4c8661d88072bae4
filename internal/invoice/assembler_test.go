package invoice

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

func matches(kv map[constants.FieldName]string) entity.FieldMatches {
	out := make(entity.FieldMatches, len(kv))
	for f, v := range kv {
		out[f] = entity.FieldMatch{Field: f, Raw: v, Value: v}
	}
	return out
}

func completeMatches() entity.FieldMatches {
	return matches(map[constants.FieldName]string{
		constants.FieldInvoiceNumber:    "47",
		constants.FieldDate:             "15.03.2025",
		constants.FieldAmount:           "12000.00",
		constants.FieldPayeeName:        `ООО "Ромашка"`,
		constants.FieldPayeeINN:         "7707083893",
		constants.FieldPayeeKPP:         "773601001",
		constants.FieldPayerName:        `ООО "Лютик"`,
		constants.FieldPayeeBankBIK:     "044525225",
		constants.FieldPayeeBankAccount: "40702810938000000001",
		constants.FieldPayeeBankCorr:    "30101810400000000225",
		constants.FieldVAT:              "2000.00",
	})
}

func TestAssemble_Complete(t *testing.T) {
	rec, err := NewAssembler(nil).Assemble(completeMatches())
	require.NoError(t, err)

	assert.Equal(t, "47", rec.Number)
	assert.Equal(t, "12000.00", rec.Amount)
	require.NotNil(t, rec.Payee)
	assert.Equal(t, "7707083893", rec.Payee.INN)
	assert.False(t, rec.Payee.INNSuspect)
	require.NotNil(t, rec.Payer)
	assert.Empty(t, rec.Payer.INN)
	require.NotNil(t, rec.PayeeBank)
	assert.False(t, rec.PayeeBank.AccountSuspect)
	assert.False(t, rec.PayeeBank.CorrSuspect)
	assert.Nil(t, rec.PayerBank)
	require.NotNil(t, rec.Additional)
	assert.Equal(t, "2000.00", rec.Additional.VAT)
	assert.Empty(t, rec.Purpose)

	require.NoError(t, rec.Validate())
}

func TestAssemble_OptionalFieldsAbsent(t *testing.T) {
	m := matches(map[constants.FieldName]string{
		constants.FieldInvoiceNumber: "1",
		constants.FieldDate:          "01.01.2025",
		constants.FieldAmount:        "1.00",
		constants.FieldPayeeName:     "ИП Иванов",
	})
	rec, err := NewAssembler(nil).Assemble(m)
	require.NoError(t, err)

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"номер_счета":"1","дата":"01.01.2025","сумма":"1.00","получатель":{"наименование":"ИП Иванов"}}`, string(b))
	assert.NoError(t, ValidateJSON(b))
}

func TestAssemble_Incomplete(t *testing.T) {
	m := matches(map[constants.FieldName]string{
		constants.FieldInvoiceNumber: "12345",
		constants.FieldDate:          "01.01.2025",
		constants.FieldAmount:        "10000.00",
	})
	rec, err := NewAssembler(nil).Assemble(m)
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.True(t, errors.Is(err, common.ErrIncompleteExtraction))

	missing, ok := AsIncomplete(err)
	require.True(t, ok)
	assert.Equal(t, []string{string(constants.PartyNameGroup)}, missing)
	assert.Equal(t, 400, common.HTTPStatus(err))
}

func TestAssemble_MissingEverything(t *testing.T) {
	_, err := NewAssembler(nil).Assemble(entity.FieldMatches{})
	missing, ok := AsIncomplete(err)
	require.True(t, ok)
	assert.Equal(t, []string{"номер_счета", "дата", "сумма", string(constants.PartyNameGroup)}, missing)
}

func TestAssemble_SuspectIdentifiers(t *testing.T) {
	m := completeMatches()
	m[constants.FieldPayerINN] = entity.FieldMatch{Field: constants.FieldPayerINN, Value: "7707083890", Suspect: true}
	m[constants.FieldPayeeBankAccount] = entity.FieldMatch{Field: constants.FieldPayeeBankAccount, Value: "40702810938000000002"}

	rec, err := NewAssembler(nil).Assemble(m)
	require.NoError(t, err)
	assert.Equal(t, "7707083890", rec.Payer.INN)
	assert.True(t, rec.Payer.INNSuspect)
	assert.True(t, rec.PayeeBank.AccountSuspect)
	assert.False(t, rec.PayeeBank.CorrSuspect)
	assert.NoError(t, rec.Validate())
}

func TestAssemble_Pure(t *testing.T) {
	a := NewAssembler(nil)
	m := completeMatches()

	first, err := a.Assemble(m)
	require.NoError(t, err)
	second, err := a.Assemble(m)
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
	assert.Equal(t, completeMatches(), m)
}

func TestValidateJSON_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad date":      `{"номер_счета":"1","дата":"2025-01-01","сумма":"1.00","получатель":{"наименование":"A"}}`,
		"bad amount":    `{"номер_счета":"1","дата":"01.01.2025","сумма":"1,00","получатель":{"наименование":"A"}}`,
		"no party name": `{"номер_счета":"1","дата":"01.01.2025","сумма":"1.00","получатель":{"ИНН":"7707083893"}}`,
		"extra key":     `{"номер_счета":"1","дата":"01.01.2025","сумма":"1.00","получатель":{"наименование":"A"},"x":1}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateJSON([]byte(doc)))
		})
	}
}
