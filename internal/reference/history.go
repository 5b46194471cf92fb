package reference

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

// History holds a subject's prior validated records. It is a read-only
// input to the consistency check and is never mutated by validation.
type History struct {
	Items []*Record
}

// Len returns the number of prior records.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Items)
}

// GetHistoryFromFile loads prior validated records from a JSON file. The
// file may come from different storage exports, so records are decoded
// loosely from generic maps instead of requiring an exact schema.
func GetHistoryFromFile(path string) (*History, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &History{}, nil
	}

	var items []map[string]any
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode history file %q: %w", path, err)
	}

	var records []*Record
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &records,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode history records: %w", err)
	}

	return &History{Items: records}, nil
}
