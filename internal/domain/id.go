package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemID identifies an item. Categories carry client supplied string ids while
// the other collections get integer ids from the server; both decode here.
type ItemID string

func (id ItemID) String() string { return string(id) }

func (id *ItemID) UnmarshalJSON(data []byte) error {
	var v interface{}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = ItemID(val)
	case json.Number:
		*id = ItemID(val.String())
	default:
		return fmt.Errorf("item id must be a string or number, got %s", data)
	}
	return nil
}
