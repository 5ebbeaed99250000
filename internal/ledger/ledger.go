// Package ledger is the accounting side of an import: it resolves partners and
// currencies, checks the target journal and files finished statements.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Store is what an import needs from the ledger.
type Store interface {
	// FindOrCreatePartner matches name case-insensitively and creates the
	// partner when it is missing and create is set. Failures are reported as
	// "no partner".
	FindOrCreatePartner(name string, create bool) (string, bool)
	// FindCurrencyByCode matches an exact currency code.
	FindCurrencyByCode(code string) (string, bool)
	// CheckJournal fails when the journal cannot receive statements.
	CheckJournal(journal string) error
	// CommitStatement files the batch as one statement and returns its reference.
	CommitStatement(batch models.ImportBatch) (string, error)
}

// DefaultJournal is used when no journal is configured.
const DefaultJournal = "BANK"

// Journal is a bank journal. Statements can only be filed in a journal with a
// suspense account.
type Journal struct {
	Code            string `yaml:"code"`
	Name            string `yaml:"name,omitempty"`
	SuspenseAccount string `yaml:"suspense_account,omitempty"`
}

// Partner is a counterparty.
type Partner struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Currency is an active currency.
type Currency struct {
	ID   string `yaml:"id"`
	Code string `yaml:"code"`
}

// Statement is a filed bank statement.
type Statement struct {
	Reference string          `yaml:"reference"`
	Name      string          `yaml:"name"`
	Journal   string          `yaml:"journal"`
	Lines     int             `yaml:"lines"`
	Total     decimal.Decimal `yaml:"total"`
	File      string          `yaml:"file,omitempty"`
	CreatedAt time.Time       `yaml:"created_at"`
}

// Ledger is the whole accounting state kept by a store.
type Ledger struct {
	Journals   []Journal   `yaml:"journals"`
	Partners   []Partner   `yaml:"partners"`
	Currencies []Currency  `yaml:"currencies"`
	Statements []Statement `yaml:"statements"`
}

// DefaultLedger is the state of a new ledger: one bank journal and the usual
// currencies.
func DefaultLedger() Ledger {
	l := Ledger{
		Journals: []Journal{{Code: DefaultJournal, Name: "Bank", SuspenseAccount: "Bank Suspense Account"}},
	}
	for _, code := range []string{"CHF", "EUR", "GBP", "USD"} {
		l.Currencies = append(l.Currencies, Currency{ID: strings.ToLower(code), Code: code})
	}
	return l
}

func (l *Ledger) findPartner(name string) (Partner, bool) {
	for _, p := range l.Partners {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Partner{}, false
}

func (l *Ledger) partnerName(id string) string {
	for _, p := range l.Partners {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

func (l *Ledger) findCurrency(code string) (Currency, bool) {
	for _, c := range l.Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

func (l *Ledger) currencyCode(id string) string {
	for _, c := range l.Currencies {
		if c.ID == id {
			return c.Code
		}
	}
	return ""
}

func (l *Ledger) checkJournal(code string) error {
	for _, j := range l.Journals {
		if j.Code != code {
			continue
		}
		if j.SuspenseAccount == "" {
			return &parsererror.CommitError{
				Journal: code,
				Reason:  fmt.Sprintf("the journal '%s' does not have a suspense account defined", displayName(j)),
				Err:     parsererror.ErrMissingSuspenseAccount,
			}
		}
		return nil
	}
	return &parsererror.CommitError{Journal: code, Reason: "journal not found", Err: parsererror.ErrUnknownJournal}
}

func displayName(j Journal) string {
	if j.Name != "" {
		return j.Name
	}
	return j.Code
}

func newStatement(ref string, batch models.ImportBatch, now time.Time) Statement {
	return Statement{
		Reference: ref,
		Name:      batch.StatementName(),
		Journal:   batch.Journal,
		Lines:     len(batch.Records),
		Total:     batch.Total(),
		CreatedAt: now,
	}
}

// checkBatch runs the checks shared by every store before a commit.
func (l *Ledger) checkBatch(batch models.ImportBatch) error {
	if err := l.checkJournal(batch.Journal); err != nil {
		return err
	}
	if len(batch.Records) == 0 {
		return &parsererror.CommitError{Journal: batch.Journal, Reason: "statement has no lines"}
	}
	return nil
}
