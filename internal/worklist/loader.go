package worklist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	sourceNameColumnHeaderConstant        = "CURRENT-NAME"
	targetNameColumnHeaderConstant        = "NEW-NAME"
	byteOrderMarkConstant                 = "\uFEFF"
	inventoryOpenErrorTemplateConstant    = "unable to open inventory file %s: %w"
	inventoryReadErrorTemplateConstant    = "unable to read inventory file %s: %w"
	missingSourceColumnMessageConstant    = "inventory file is missing the " + sourceNameColumnHeaderConstant + " column"
	emptyInventoryFileMessageConstant     = "inventory file contains no header row"
	columnIndexNotPresentSentinelConstant = -1
)

// ErrMissingSourceColumn reports an inventory file without the required source column.
var ErrMissingSourceColumn = errors.New(missingSourceColumnMessageConstant)

// ErrEmptyInventory reports an inventory file without a header row.
var ErrEmptyInventory = errors.New(emptyInventoryFileMessageConstant)

// Loader reads migration work items from CSV inventories.
type Loader struct{}

// NewLoader constructs a Loader instance.
func NewLoader() Loader {
	return Loader{}
}

// LoadFromFile reads the inventory at the provided path.
func (loader Loader) LoadFromFile(inventoryPath string) ([]WorkItem, error) {
	inventoryFile, openError := os.Open(inventoryPath)
	if openError != nil {
		return nil, fmt.Errorf(inventoryOpenErrorTemplateConstant, inventoryPath, openError)
	}
	defer inventoryFile.Close()

	workItems, loadError := loader.Load(inventoryFile)
	if loadError != nil {
		return nil, fmt.Errorf(inventoryReadErrorTemplateConstant, inventoryPath, loadError)
	}

	return workItems, nil
}

// Load reads work items from CSV content.
//
// The first row is the header. Rows with a blank source column are dropped,
// and a blank target column falls back to the source name. A leading
// byte-order mark on the header is tolerated.
func (loader Loader) Load(inventoryReader io.Reader) ([]WorkItem, error) {
	csvReader := csv.NewReader(inventoryReader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	headerRecord, headerError := csvReader.Read()
	if headerError != nil {
		if errors.Is(headerError, io.EOF) {
			return nil, ErrEmptyInventory
		}
		return nil, headerError
	}

	sourceColumnIndex, targetColumnIndex := locateColumns(headerRecord)
	if sourceColumnIndex == columnIndexNotPresentSentinelConstant {
		return nil, ErrMissingSourceColumn
	}

	workItems := []WorkItem{}
	for {
		record, recordError := csvReader.Read()
		if recordError != nil {
			if errors.Is(recordError, io.EOF) {
				break
			}
			return nil, recordError
		}

		sourceName := strings.TrimSpace(columnValue(record, sourceColumnIndex))
		if len(sourceName) == 0 {
			continue
		}

		targetName := strings.TrimSpace(columnValue(record, targetColumnIndex))
		workItems = append(workItems, NewWorkItem(sourceName, targetName))
	}

	return workItems, nil
}

func locateColumns(headerRecord []string) (int, int) {
	sourceColumnIndex := columnIndexNotPresentSentinelConstant
	targetColumnIndex := columnIndexNotPresentSentinelConstant

	for headerIndex, headerValue := range headerRecord {
		normalizedHeader := strings.TrimSpace(strings.TrimPrefix(headerValue, byteOrderMarkConstant))
		switch normalizedHeader {
		case sourceNameColumnHeaderConstant:
			sourceColumnIndex = headerIndex
		case targetNameColumnHeaderConstant:
			targetColumnIndex = headerIndex
		}
	}

	return sourceColumnIndex, targetColumnIndex
}

func columnValue(record []string, columnIndex int) string {
	if columnIndex == columnIndexNotPresentSentinelConstant || columnIndex >= len(record) {
		return ""
	}
	return record[columnIndex]
}
