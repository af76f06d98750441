package worklist_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repo-migrate/internal/worklist"
)

const (
	testLoaderBlankTargetCaseNameConstant   = "blank_target_defaults_to_source"
	testLoaderBlankSourceCaseNameConstant   = "blank_source_rows_dropped"
	testLoaderByteOrderMarkCaseNameConstant = "byte_order_mark_tolerated"
	testLoaderOrderingCaseNameConstant      = "input_order_preserved"
	testLoaderMissingTargetColumnCaseName   = "missing_target_column_tolerated"
	testLoaderShortRecordCaseNameConstant   = "short_records_tolerated"
)

func TestLoaderLoad(testInstance *testing.T) {
	testCases := []struct {
		name              string
		inventoryContent  string
		expectedWorkItems []worklist.WorkItem
	}{
		{
			name:             testLoaderBlankTargetCaseNameConstant,
			inventoryContent: "CURRENT-NAME,NEW-NAME\nalpha,\nbeta,beta-v2\n",
			expectedWorkItems: []worklist.WorkItem{
				{SourceName: "alpha", TargetName: "alpha"},
				{SourceName: "beta", TargetName: "beta-v2"},
			},
		},
		{
			name:             testLoaderBlankSourceCaseNameConstant,
			inventoryContent: "CURRENT-NAME,NEW-NAME\nalpha,\nbeta,beta-v2\n,ignored-name\n",
			expectedWorkItems: []worklist.WorkItem{
				{SourceName: "alpha", TargetName: "alpha"},
				{SourceName: "beta", TargetName: "beta-v2"},
			},
		},
		{
			name:             testLoaderByteOrderMarkCaseNameConstant,
			inventoryContent: "\uFEFFCURRENT-NAME,NEW-NAME\nalpha,alpha-new\n",
			expectedWorkItems: []worklist.WorkItem{
				{SourceName: "alpha", TargetName: "alpha-new"},
			},
		},
		{
			name:             testLoaderOrderingCaseNameConstant,
			inventoryContent: "CURRENT-NAME,NEW-NAME\ncharlie,\nalpha,\nbeta,\n",
			expectedWorkItems: []worklist.WorkItem{
				{SourceName: "charlie", TargetName: "charlie"},
				{SourceName: "alpha", TargetName: "alpha"},
				{SourceName: "beta", TargetName: "beta"},
			},
		},
		{
			name:             testLoaderMissingTargetColumnCaseName,
			inventoryContent: "CURRENT-NAME\nalpha\n",
			expectedWorkItems: []worklist.WorkItem{
				{SourceName: "alpha", TargetName: "alpha"},
			},
		},
		{
			name:             testLoaderShortRecordCaseNameConstant,
			inventoryContent: "CURRENT-NAME,NEW-NAME\nalpha\nbeta,beta-v2\n",
			expectedWorkItems: []worklist.WorkItem{
				{SourceName: "alpha", TargetName: "alpha"},
				{SourceName: "beta", TargetName: "beta-v2"},
			},
		},
	}

	loader := worklist.NewLoader()

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workItems, loadError := loader.Load(strings.NewReader(testCase.inventoryContent))
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedWorkItems, workItems)
		})
	}
}

func TestLoaderLoadMissingSourceColumn(testInstance *testing.T) {
	loader := worklist.NewLoader()
	_, loadError := loader.Load(strings.NewReader("NEW-NAME\nalpha\n"))
	require.ErrorIs(testInstance, loadError, worklist.ErrMissingSourceColumn)
}

func TestLoaderLoadEmptyInventory(testInstance *testing.T) {
	loader := worklist.NewLoader()
	_, loadError := loader.Load(strings.NewReader(""))
	require.ErrorIs(testInstance, loadError, worklist.ErrEmptyInventory)
}

func TestLoaderLoadFromFile(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	inventoryPath := filepath.Join(temporaryDirectory, "repos.csv")
	writeError := os.WriteFile(inventoryPath, []byte("CURRENT-NAME,NEW-NAME\nalpha,alpha-new\n"), 0o644)
	require.NoError(testInstance, writeError)

	loader := worklist.NewLoader()
	workItems, loadError := loader.LoadFromFile(inventoryPath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []worklist.WorkItem{{SourceName: "alpha", TargetName: "alpha-new"}}, workItems)
}

func TestLoaderLoadFromFileMissing(testInstance *testing.T) {
	loader := worklist.NewLoader()
	_, loadError := loader.LoadFromFile(filepath.Join(testInstance.TempDir(), "absent.csv"))
	require.Error(testInstance, loadError)
}
