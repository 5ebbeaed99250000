package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	// LedgerFileName is the ledger state inside the ledger directory.
	LedgerFileName = "ledger.yaml"
	// StatementsDirName holds one CSV file per filed statement.
	StatementsDirName = "statements"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// statementLine is one row of a statement CSV file.
type statementLine struct {
	Date            string `csv:"Date"`
	PaymentRef      string `csv:"Label"`
	Partner         string `csv:"Partner"`
	Amount          string `csv:"Amount"`
	ForeignCurrency string `csv:"ForeignCurrency"`
	ForeignAmount   string `csv:"ForeignAmount"`
}

// FileStore keeps the ledger in a YAML file and writes every filed statement
// as a CSV file next to it.
type FileStore struct {
	mu        sync.Mutex
	dir       string
	delimiter rune
	ledger    Ledger
	logger    logging.Logger
	now       func() time.Time
}

// NewFileStore loads the ledger from dir. A missing ledger file starts from
// DefaultLedger and is written on the first change.
func NewFileStore(dir string, delimiter rune, logger logging.Logger) (*FileStore, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	s := &FileStore{
		dir:       dir,
		delimiter: delimiter,
		logger:    logging.OrDefault(logger),
		now:       time.Now,
	}

	path := s.ledgerPath()
	data, err := os.ReadFile(path) // #nosec G304 -- ledger directory comes from configuration
	if os.IsNotExist(err) {
		s.logger.WithField(logging.FieldFile, path).Warn("Ledger file not found, starting with default ledger")
		s.ledger = DefaultLedger()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading ledger file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.ledger); err != nil {
		return nil, fmt.Errorf("error parsing ledger file %s: %w", path, err)
	}

	s.logger.WithFields(
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(s.ledger.Statements)),
	).Debug("Loaded ledger")
	return s, nil
}

func (s *FileStore) ledgerPath() string {
	return filepath.Join(s.dir, LedgerFileName)
}

// save writes the ledger file. Callers hold the lock.
func (s *FileStore) save() error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	data, err := yaml.Marshal(s.ledger)
	if err != nil {
		return fmt.Errorf("error marshaling ledger: %w", err)
	}
	if err := os.WriteFile(s.ledgerPath(), data, 0600); err != nil {
		return fmt.Errorf("error writing ledger file: %w", err)
	}
	return nil
}

func (s *FileStore) FindOrCreatePartner(name string, create bool) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.ledger.findPartner(name); ok {
		return p.ID, true
	}
	if !create || strings.TrimSpace(name) == "" {
		return "", false
	}

	p := Partner{ID: uuid.NewString(), Name: name}
	s.ledger.Partners = append(s.ledger.Partners, p)
	if err := s.save(); err != nil {
		s.ledger.Partners = s.ledger.Partners[:len(s.ledger.Partners)-1]
		s.logger.WithError(err).WithField(logging.FieldPartner, name).Warn("Failed to create partner")
		return "", false
	}
	s.logger.WithField(logging.FieldPartner, name).Info("Created partner")
	return p.ID, true
}

func (s *FileStore) FindCurrencyByCode(code string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.ledger.findCurrency(code)
	return c.ID, ok
}

func (s *FileStore) CheckJournal(journal string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.checkJournal(journal)
}

// CommitStatement writes the statement CSV and then records the statement in
// the ledger file. Nothing is kept when either step fails.
func (s *FileStore) CommitStatement(batch models.ImportBatch) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.checkBatch(batch); err != nil {
		return "", err
	}

	ref := uuid.NewString()
	stmt := newStatement(ref, batch, s.now())
	stmt.File = statementFileName(stmt)

	csvPath := filepath.Join(s.dir, StatementsDirName, stmt.File)
	if err := s.writeStatementCSV(csvPath, batch.Records); err != nil {
		return "", &parsererror.CommitError{Journal: batch.Journal, Reason: "cannot write statement file", Err: err}
	}

	s.ledger.Statements = append(s.ledger.Statements, stmt)
	if err := s.save(); err != nil {
		s.ledger.Statements = s.ledger.Statements[:len(s.ledger.Statements)-1]
		if rmErr := os.Remove(csvPath); rmErr != nil {
			s.logger.WithError(rmErr).WithField(logging.FieldFile, csvPath).Warn("Failed to remove statement file")
		}
		return "", &parsererror.CommitError{Journal: batch.Journal, Reason: "cannot update ledger", Err: err}
	}

	s.logger.WithFields(
		logging.F(logging.FieldStatement, stmt.Name),
		logging.F(logging.FieldJournal, stmt.Journal),
		logging.F(logging.FieldCount, stmt.Lines),
		logging.F(logging.FieldOutputFile, csvPath),
	).Info("Statement committed")
	return ref, nil
}

func statementFileName(stmt Statement) string {
	base := strings.TrimSuffix(stmt.Name, filepath.Ext(stmt.Name))
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "statement"
	}
	return fmt.Sprintf("%s-%s.csv", base, stmt.Reference[:8])
}

func (s *FileStore) writeStatementCSV(path string, records []models.TransactionRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	lines := make([]statementLine, len(records))
	for i, r := range records {
		lines[i] = statementLine{
			Date:       r.Date.Format("2006-01-02"),
			PaymentRef: r.PaymentRef,
			Partner:    s.ledger.partnerName(r.PartnerRef),
			Amount:     r.Amount.StringFixed(2),
		}
		if r.HasForeignCurrency() {
			lines[i].ForeignCurrency = s.ledger.currencyCode(r.ForeignCurrencyRef)
			lines[i].ForeignAmount = r.ForeignAmount.StringFixed(2)
		}
	}

	file, err := os.Create(path) // #nosec G304 -- path is built from the ledger directory
	if err != nil {
		return fmt.Errorf("error creating statement file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	writer := csv.NewWriter(file)
	writer.Comma = s.delimiter
	if err := gocsv.MarshalCSV(lines, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing statement lines: %w", err)
	}
	return nil
}

// Ledger returns a copy of the current ledger state.
func (s *FileStore) Ledger() Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.ledger
	l.Journals = append([]Journal(nil), s.ledger.Journals...)
	l.Partners = append([]Partner(nil), s.ledger.Partners...)
	l.Currencies = append([]Currency(nil), s.ledger.Currencies...)
	l.Statements = append([]Statement(nil), s.ledger.Statements...)
	return l
}
