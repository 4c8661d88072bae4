package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/taxid"
)

// IncompleteError lists the required fields that did not resolve. A group
// of alternatives is reported as its names joined with "|".
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete extraction: missing %s", strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, common.ErrIncompleteExtraction) hold.
func (e *IncompleteError) Is(target error) bool {
	return target == common.ErrIncompleteExtraction
}

// AsIncomplete extracts the missing-field list from err, if any.
func AsIncomplete(err error) ([]string, bool) {
	var ie *IncompleteError
	if errors.As(err, &ie) {
		return ie.Missing, true
	}
	return nil, false
}

// DefaultRequirements: invoice number, date, amount and at least one party name.
func DefaultRequirements() [][]constants.FieldName {
	return [][]constants.FieldName{
		{constants.FieldInvoiceNumber},
		{constants.FieldDate},
		{constants.FieldAmount},
		{constants.FieldPayerName, constants.FieldPayeeName},
	}
}

// Assembler builds records from field matches. It is stateless; the same
// matches always produce the same record.
type Assembler struct {
	required [][]constants.FieldName
}

// NewAssembler uses required as the completeness gate; nil means DefaultRequirements.
func NewAssembler(required [][]constants.FieldName) *Assembler {
	if required == nil {
		required = DefaultRequirements()
	}
	cp := make([][]constants.FieldName, len(required))
	for i, group := range required {
		cp[i] = append([]constants.FieldName(nil), group...)
	}
	return &Assembler{required: cp}
}

// Assemble returns the record, or an *IncompleteError when a requirement
// is not met. A partial record is never returned.
func (a *Assembler) Assemble(m entity.FieldMatches) (*InvoiceRecord, error) {
	if missing := a.missing(m); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}

	payeeBank := bank(m, constants.FieldPayeeBankName, constants.FieldPayeeBankBIK,
		constants.FieldPayeeBankAccount, constants.FieldPayeeBankCorr)
	payerBank := bank(m, constants.FieldPayerBankName, constants.FieldPayerBankBIK,
		constants.FieldPayerBankAccount, "")

	rec := &InvoiceRecord{
		Number:     m.Value(constants.FieldInvoiceNumber),
		Date:       m.Value(constants.FieldDate),
		Amount:     m.Value(constants.FieldAmount),
		Purpose:    m.Value(constants.FieldPurpose),
		Payer:      party(m, constants.FieldPayerName, constants.FieldPayerINN, constants.FieldPayerKPP),
		Payee:      party(m, constants.FieldPayeeName, constants.FieldPayeeINN, constants.FieldPayeeKPP),
		PayeeBank:  payeeBank,
		PayerBank:  payerBank,
		Additional: additional(m),
	}
	return rec, nil
}

func (a *Assembler) missing(m entity.FieldMatches) []string {
	var out []string
	for _, group := range a.required {
		found := false
		names := make([]string, 0, len(group))
		for _, f := range group {
			names = append(names, string(f))
			if m.Has(f) {
				found = true
			}
		}
		if !found {
			out = append(out, strings.Join(names, "|"))
		}
	}
	return out
}

func party(m entity.FieldMatches, name, inn, kpp constants.FieldName) *PartyRecord {
	p := PartyRecord{
		Name: m.Value(name),
		INN:  m.Value(inn),
		KPP:  m.Value(kpp),
	}
	if p.INN != "" {
		p.INNSuspect = m[inn].Suspect || !taxid.ValidINN(p.INN)
	}
	if p == (PartyRecord{}) {
		return nil
	}
	return &p
}

// bank cross-checks accounts against the BIK control key; a mismatch marks
// the account suspect but keeps it.
func bank(m entity.FieldMatches, name, bik, account, corr constants.FieldName) *BankDetails {
	b := BankDetails{
		Name:    m.Value(name),
		BIK:     m.Value(bik),
		Account: m.Value(account),
	}
	if corr != "" {
		b.Corr = m.Value(corr)
	}
	if b.Account != "" {
		b.AccountSuspect = b.BIK != "" && !taxid.ValidAccount(b.Account, b.BIK)
	}
	if b.Corr != "" {
		b.CorrSuspect = b.BIK != "" && !taxid.ValidCorrAccount(b.Corr, b.BIK)
	}
	if b == (BankDetails{}) {
		return nil
	}
	return &b
}

func additional(m entity.FieldMatches) *AdditionalFields {
	f := AdditionalFields{
		Currency:      m.Value(constants.FieldCurrency),
		VAT:           m.Value(constants.FieldVAT),
		AmountInWords: m.Value(constants.FieldAmountInWords),
		Contract:      m.Value(constants.FieldContract),
		DueDate:       m.Value(constants.FieldDueDate),
	}
	if f == (AdditionalFields{}) {
		return nil
	}
	return &f
}
