package common_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/stmt-import/cmd/common"
	"fjacquet/stmt-import/cmd/root"
	"fjacquet/stmt-import/internal/config"
	"fjacquet/stmt-import/internal/container"
	"fjacquet/stmt-import/internal/ledger"
	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/tabular"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	c, err := container.NewContainer(config.Default(),
		container.WithStore(ledger.NewMemoryStore(ledger.WithJournal("BANK", "Suspense"))),
		container.WithLogger(logging.NewDiscardLogger()))
	require.NoError(t, err)
	return c
}

var bankCSV = tabular.Source{Name: "bank.csv", Data: []byte("Date,Details,Amount\n15/01/2024,Coffee,-3.50\n")}

func TestResolveMapping_Guessed(t *testing.T) {
	m, err := common.ResolveMapping(newContainer(t), bankCSV, models.DefaultImportConfiguration(), common.MappingFlags{})
	require.NoError(t, err)
	assert.Equal(t, []models.TargetField{models.FieldDate, models.FieldAmount}, m.Targets())
}

func TestResolveMapping_Overrides(t *testing.T) {
	flags := common.MappingFlags{Overrides: []string{"payment_ref=Details", "date="}}

	m, err := common.ResolveMapping(newContainer(t), bankCSV, models.DefaultImportConfiguration(), flags)
	require.NoError(t, err)
	assert.Equal(t, []models.TargetField{models.FieldPaymentRef, models.FieldAmount}, m.Targets())
}

func TestResolveMapping_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  - column_index: 2\n    column_name: Amount\n    target_field: amount\n"), 0600))

	m, err := common.ResolveMapping(newContainer(t), bankCSV, models.DefaultImportConfiguration(), common.MappingFlags{File: path})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	idx, ok := m.Index(models.FieldAmount)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestResolveMapping_Errors(t *testing.T) {
	c := newContainer(t)
	cfg := models.DefaultImportConfiguration()

	_, err := common.ResolveMapping(c, bankCSV, cfg, common.MappingFlags{File: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	_, err = common.ResolveMapping(c, bankCSV, cfg, common.MappingFlags{Overrides: []string{"colour=1"}})
	assert.ErrorContains(t, err, "unknown target field")

	_, err = common.ResolveMapping(c, bankCSV, cfg, common.MappingFlags{Overrides: []string{"amount=Balance"}})
	assert.ErrorContains(t, err, `unknown column "Balance"`)
}

func TestPrepareJob_NotInitialized(t *testing.T) {
	_, err := common.PrepareJob(&root.Options{Input: "bank.csv"}, common.MappingFlags{})
	assert.Error(t, err)
}

func TestAddMappingFlags(t *testing.T) {
	var flags common.MappingFlags
	cmd := &cobra.Command{Use: "test"}
	common.AddMappingFlags(cmd, &flags)

	require.NoError(t, cmd.Flags().Parse([]string{"-m", "bank.yaml", "--map", "amount=3", "--map", "date=1"}))
	assert.Equal(t, "bank.yaml", flags.File)
	assert.Equal(t, []string{"amount=3", "date=1"}, flags.Overrides)
}
