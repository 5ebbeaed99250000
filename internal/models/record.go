package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentRef is used when a row has no label.
const DefaultPaymentRef = "/"

// DefaultStatementName names a statement whose source has no file name.
const DefaultStatementName = "Imported Statement"

// TransactionRecord is one normalized statement line.
type TransactionRecord struct {
	Date       time.Time       `json:"date" yaml:"date"`
	PaymentRef string          `json:"payment_ref" yaml:"payment_ref"`
	PartnerRef string          `json:"partner_ref,omitempty" yaml:"partner_ref,omitempty"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
	// ForeignCurrencyRef and ForeignAmount are only meaningful together.
	ForeignCurrencyRef string          `json:"foreign_currency_ref,omitempty" yaml:"foreign_currency_ref,omitempty"`
	ForeignAmount      decimal.Decimal `json:"foreign_amount,omitempty" yaml:"foreign_amount,omitempty"`
}

// HasPartner reports whether the record references a partner.
func (r TransactionRecord) HasPartner() bool {
	return r.PartnerRef != ""
}

// HasForeignCurrency reports whether the record carries a foreign amount.
func (r TransactionRecord) HasForeignCurrency() bool {
	return r.ForeignCurrencyRef != ""
}

// String renders the record on one line.
func (r TransactionRecord) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", r.Date.Format("2006-01-02"), r.PaymentRef, r.Amount.StringFixed(2))
	if r.HasPartner() {
		fmt.Fprintf(&b, " partner=%s", r.PartnerRef)
	}
	if r.HasForeignCurrency() {
		fmt.Fprintf(&b, " foreign=%s %s", r.ForeignAmount.String(), r.ForeignCurrencyRef)
	}
	return b.String()
}

// ImportBatch is the set of records committed as one statement.
type ImportBatch struct {
	SourceName string
	Journal    string
	Records    []TransactionRecord
}

// StatementName returns the name the statement is filed under.
func (b ImportBatch) StatementName() string {
	if b.SourceName == "" {
		return DefaultStatementName
	}
	return b.SourceName
}

// Total returns the sum of all record amounts.
func (b ImportBatch) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range b.Records {
		total = total.Add(r.Amount)
	}
	return total
}
