package models

import (
	"bytes"
	"encoding/json"
)

// ObjectID is a server-assigned identifier. The backend serializes it as a
// plain string or as a Mongo extended-JSON object {"$oid": "..."}; both
// decode to the same value.
type ObjectID string

func (id *ObjectID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var ext struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(b, &ext); err != nil {
			return err
		}
		*id = ObjectID(ext.OID)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*id = ObjectID(s)
	return nil
}

func (id ObjectID) String() string {
	return string(id)
}

// FirstID returns the first non-empty id.
func FirstID(ids ...ObjectID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}
