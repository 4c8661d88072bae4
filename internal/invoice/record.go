// Package invoice assembles recognized fields into the nested invoice
// record and enforces its completeness rules.
package invoice

// PartyRecord identifies the payer or the payee. An INN that failed its
// checksum is kept and flagged rather than dropped.
type PartyRecord struct {
	Name       string `json:"наименование,omitempty"`
	INN        string `json:"ИНН,omitempty"`
	INNSuspect bool   `json:"ИНН_сомнительный,omitempty"`
	KPP        string `json:"КПП,omitempty"`
}

// BankDetails carries routing data for one side of the payment.
type BankDetails struct {
	Name           string `json:"наименование,omitempty"`
	BIK            string `json:"БИК,omitempty"`
	Account        string `json:"р/с,omitempty"`
	AccountSuspect bool   `json:"р/с_сомнительный,omitempty"`
	Corr           string `json:"к/с,omitempty"`
	CorrSuspect    bool   `json:"к/с_сомнительный,omitempty"`
}

// AdditionalFields groups optional invoice attributes.
type AdditionalFields struct {
	Currency      string `json:"валюта,omitempty"`
	VAT           string `json:"НДС,omitempty"`
	AmountInWords string `json:"сумма_прописью,omitempty"`
	Contract      string `json:"договор,omitempty"`
	DueDate       string `json:"срок_оплаты,omitempty"`
}

// InvoiceRecord is the complete extraction result. Field names are the same
// for every input language.
type InvoiceRecord struct {
	Number     string            `json:"номер_счета"`
	Date       string            `json:"дата"`
	Payer      *PartyRecord      `json:"плательщик,omitempty"`
	Payee      *PartyRecord      `json:"получатель,omitempty"`
	Amount     string            `json:"сумма"`
	Purpose    string            `json:"назначение_платежа,omitempty"`
	PayeeBank  *BankDetails      `json:"банк_получателя,omitempty"`
	PayerBank  *BankDetails      `json:"банк_плательщика,omitempty"`
	Additional *AdditionalFields `json:"дополнительные_поля,omitempty"`
}
