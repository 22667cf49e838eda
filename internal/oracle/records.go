package oracle

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/renovalab/renovest/internal/property"
)

// LoadRecords reads a fixture dataset from a JSON file: an array of property
// records in the wire shape of property.Record. Records without a street are
// rejected rather than skipped; a broken dataset should fail loudly at
// startup, not surface as missing comparables later.
func LoadRecords(path string) ([]property.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("oracle: read dataset %s: %w", path, err)
	}
	var records []property.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("oracle: parse dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("oracle: dataset %s contains no records", path)
	}
	for i, rec := range records {
		if strings.TrimSpace(rec.Street) == "" {
			return nil, fmt.Errorf("oracle: dataset %s: record %d has no street address", path, i)
		}
	}
	return records, nil
}
