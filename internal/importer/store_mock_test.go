package importer

import (
	"errors"
	"testing"

	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"
	"fjacquet/stmt-import/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockStore records every ledger call made by a run.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindOrCreatePartner(name string, create bool) (string, bool) {
	args := m.Called(name, create)
	return args.String(0), args.Bool(1)
}

func (m *mockStore) FindCurrencyByCode(code string) (string, bool) {
	args := m.Called(code)
	return args.String(0), args.Bool(1)
}

func (m *mockStore) CheckJournal(journal string) error {
	return m.Called(journal).Error(0)
}

func (m *mockStore) CommitStatement(batch models.ImportBatch) (string, error) {
	args := m.Called(batch)
	return args.String(0), args.Error(1)
}

const partnerCSV = "Date,Partner,Amount\n15/01/2024, Acme ,-3.50\n16/01/2024,,-1.00\n"

func partnerMapping() models.ColumnMapping {
	return models.NewColumnMapping([]models.MappingEntry{
		{ColumnIndex: 0, ColumnName: "Date", Target: models.FieldDate},
		{ColumnIndex: 1, ColumnName: "Partner", Target: models.FieldPartner},
		{ColumnIndex: 2, ColumnName: "Amount", Target: models.FieldAmount},
	})
}

func TestRunImport_LedgerCalls(t *testing.T) {
	store := new(mockStore)
	store.On("CheckJournal", "BANK").Return(nil).Once()
	store.On("FindOrCreatePartner", "Acme", false).Return("p-acme", true).Once()
	store.On("CommitStatement", mock.MatchedBy(func(b models.ImportBatch) bool {
		return b.Journal == "BANK" && b.SourceName == "bank.csv" && len(b.Records) == 2 &&
			b.Records[0].PartnerRef == "p-acme" && !b.Records[1].HasPartner()
	})).Return("st-1", nil).Once()

	cfg := models.DefaultImportConfiguration()
	cfg.CreatePartner = false

	ref, err := New(store, logging.NewDiscardLogger()).RunImport(
		tabular.Source{Name: "bank.csv", Data: []byte(partnerCSV)}, cfg, partnerMapping(), "BANK")
	require.NoError(t, err)
	assert.Equal(t, "st-1", ref)
	store.AssertExpectations(t)
}

func TestRunImport_JournalCheckedBeforeReading(t *testing.T) {
	store := new(mockStore)
	store.On("CheckJournal", "CASH").Return(&parsererror.CommitError{Journal: "CASH", Err: parsererror.ErrMissingSuspenseAccount})

	_, err := New(store, logging.NewDiscardLogger()).RunImport(
		tabular.Source{Name: "bank.csv", Data: []byte(partnerCSV)}, models.DefaultImportConfiguration(), partnerMapping(), "CASH")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrMissingSuspenseAccount))

	var cfgErr *parsererror.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	store.AssertNotCalled(t, "FindOrCreatePartner", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "CommitStatement", mock.Anything)
}

func TestTestImport_NeverCommits(t *testing.T) {
	store := new(mockStore)
	store.On("CheckJournal", "BANK").Return(nil)
	store.On("FindOrCreatePartner", "Acme", true).Return("p-acme", true)

	report, err := New(store, logging.NewDiscardLogger()).TestImport(
		tabular.Source{Name: "bank.csv", Data: []byte(partnerCSV)}, models.DefaultImportConfiguration(), partnerMapping(), "BANK")
	require.NoError(t, err)
	assert.Equal(t, 2, report.ValidCount)
	store.AssertNotCalled(t, "CommitStatement", mock.Anything)
}
