package constants

import "strings"

// FieldName is the dotted output path of a logical invoice field.
// The same names key the rule table and IncompleteExtraction reports.
type FieldName string

const (
	FieldInvoiceNumber FieldName = "номер_счета"
	FieldDate          FieldName = "дата"
	FieldAmount        FieldName = "сумма"
	FieldPurpose       FieldName = "назначение_платежа"

	FieldPayerName FieldName = "плательщик.наименование"
	FieldPayerINN  FieldName = "плательщик.ИНН"
	FieldPayerKPP  FieldName = "плательщик.КПП"
	FieldPayeeName FieldName = "получатель.наименование"
	FieldPayeeINN  FieldName = "получатель.ИНН"
	FieldPayeeKPP  FieldName = "получатель.КПП"

	FieldPayeeBankName    FieldName = "банк_получателя.наименование"
	FieldPayeeBankBIK     FieldName = "банк_получателя.БИК"
	FieldPayeeBankAccount FieldName = "банк_получателя.р/с"
	FieldPayeeBankCorr    FieldName = "банк_получателя.к/с"
	FieldPayerBankName    FieldName = "банк_плательщика.наименование"
	FieldPayerBankBIK     FieldName = "банк_плательщика.БИК"
	FieldPayerBankAccount FieldName = "банк_плательщика.р/с"

	FieldCurrency      FieldName = "дополнительные_поля.валюта"
	FieldVAT           FieldName = "дополнительные_поля.НДС"
	FieldAmountInWords FieldName = "дополнительные_поля.сумма_прописью"
	FieldContract      FieldName = "дополнительные_поля.договор"
	FieldDueDate       FieldName = "дополнительные_поля.срок_оплаты"
)

// PartyNameGroup is reported when neither party name resolved.
const PartyNameGroup FieldName = "плательщик.наименование|получатель.наименование"

var allFields = []FieldName{
	FieldInvoiceNumber, FieldDate, FieldAmount, FieldPurpose,
	FieldPayerName, FieldPayerINN, FieldPayerKPP,
	FieldPayeeName, FieldPayeeINN, FieldPayeeKPP,
	FieldPayeeBankName, FieldPayeeBankBIK, FieldPayeeBankAccount, FieldPayeeBankCorr,
	FieldPayerBankName, FieldPayerBankBIK, FieldPayerBankAccount,
	FieldCurrency, FieldVAT, FieldAmountInWords, FieldContract, FieldDueDate,
}

// AllFields returns every known field name in output order.
func AllFields() []FieldName {
	out := make([]FieldName, len(allFields))
	copy(out, allFields)
	return out
}

// IsKnownField reports whether name is one of the declared fields.
func IsKnownField(name string) bool {
	for _, f := range allFields {
		if string(f) == name {
			return true
		}
	}
	return false
}

// Group returns the top-level object a field belongs to ("" for scalars).
func (f FieldName) Group() string {
	if i := strings.IndexByte(string(f), '.'); i >= 0 {
		return string(f)[:i]
	}
	return ""
}
