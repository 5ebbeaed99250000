package ledger

import (
	"strings"
	"sync"
	"time"

	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"github.com/google/uuid"
)

// MemoryStore keeps the ledger in memory. It backs tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	ledger  Ledger
	batches []models.ImportBatch
	logger  logging.Logger
	newID   func() string
	now     func() time.Time

	// Error injection for testing failure paths
	PartnerCreateError error
	CommitError        error
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithJournal adds a journal. An empty suspense account makes it unusable.
func WithJournal(code, suspenseAccount string) Option {
	return func(s *MemoryStore) {
		s.ledger.Journals = append(s.ledger.Journals, Journal{Code: code, SuspenseAccount: suspenseAccount})
	}
}

// WithPartner adds an existing partner.
func WithPartner(id, name string) Option {
	return func(s *MemoryStore) {
		s.ledger.Partners = append(s.ledger.Partners, Partner{ID: id, Name: name})
	}
}

// WithCurrency adds an active currency.
func WithCurrency(id, code string) Option {
	return func(s *MemoryStore) {
		s.ledger.Currencies = append(s.ledger.Currencies, Currency{ID: id, Code: code})
	}
}

// WithLedger replaces the whole initial state.
func WithLedger(l Ledger) Option {
	return func(s *MemoryStore) {
		s.ledger = l
	}
}

// WithLogger sets the logger used for soft failures.
func WithLogger(logger logging.Logger) Option {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// WithIDGenerator replaces the uuid generator, for deterministic references.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) {
		s.newID = gen
	}
}

// NewMemoryStore returns an empty store configured by opts.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	return s
}

func (s *MemoryStore) FindOrCreatePartner(name string, create bool) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.ledger.findPartner(name); ok {
		return p.ID, true
	}
	if !create || strings.TrimSpace(name) == "" {
		return "", false
	}
	if s.PartnerCreateError != nil {
		s.logger.WithError(s.PartnerCreateError).
			WithField(logging.FieldPartner, name).
			Warn("Failed to create partner")
		return "", false
	}

	p := Partner{ID: s.newID(), Name: name}
	s.ledger.Partners = append(s.ledger.Partners, p)
	s.logger.WithField(logging.FieldPartner, name).Debug("Created partner")
	return p.ID, true
}

func (s *MemoryStore) FindCurrencyByCode(code string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.ledger.findCurrency(code)
	return c.ID, ok
}

func (s *MemoryStore) CheckJournal(journal string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.checkJournal(journal)
}

func (s *MemoryStore) CommitStatement(batch models.ImportBatch) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.checkBatch(batch); err != nil {
		return "", err
	}
	if s.CommitError != nil {
		return "", &parsererror.CommitError{Journal: batch.Journal, Reason: "ledger rejected the statement", Err: s.CommitError}
	}

	ref := s.newID()
	s.ledger.Statements = append(s.ledger.Statements, newStatement(ref, batch, s.now()))

	records := make([]models.TransactionRecord, len(batch.Records))
	copy(records, batch.Records)
	batch.Records = records
	s.batches = append(s.batches, batch)
	return ref, nil
}

// Partners returns a copy of the known partners.
func (s *MemoryStore) Partners() []Partner {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Partner, len(s.ledger.Partners))
	copy(out, s.ledger.Partners)
	return out
}

// Statements returns a copy of the filed statements.
func (s *MemoryStore) Statements() []Statement {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Statement, len(s.ledger.Statements))
	copy(out, s.ledger.Statements)
	return out
}

// Batches returns the committed batches with their records.
func (s *MemoryStore) Batches() []models.ImportBatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ImportBatch, len(s.batches))
	copy(out, s.batches)
	return out
}
