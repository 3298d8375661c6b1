package acquire

import (
	"fmt"

	"github.com/tidwall/gjson"

	"raisingate/adapters/tabular"
)

// Records extracts an array of flat objects from a JSON document into a raw
// table. The path is a gjson path; empty or "." means the document root.
// Columns appear in first-seen key order and absent or null fields are empty.
func Records(body []byte, path string) (*tabular.RawTable, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	result := gjson.ParseBytes(body)
	if path != "" && path != "." {
		result = gjson.GetBytes(body, path)
	}
	if !result.Exists() {
		return nil, fmt.Errorf("data path '%s' not found in response", path)
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("data path '%s' is not an array", path)
	}

	var headers []string
	col := make(map[string]int)
	var records []map[string]string
	var err error
	result.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			err = fmt.Errorf("record %d is not an object", len(records))
			return false
		}
		rec := make(map[string]string)
		item.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if _, ok := col[k]; !ok {
				col[k] = len(headers)
				headers = append(headers, k)
			}
			if value.Type != gjson.Null {
				rec[k] = value.String()
			}
			return true
		})
		records = append(records, rec)
		return true
	})
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(headers))
		for k, v := range rec {
			row[col[k]] = v
		}
		rows[i] = row
	}
	return &tabular.RawTable{Headers: headers, Rows: rows}, nil
}
