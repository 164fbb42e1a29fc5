package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// rawOf decodes a JSON object literal into a RawEvent of category c.
func rawOf(t *testing.T, c Category, js string) RawEvent {
	t.Helper()
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(js), &rec))
	return NewRawEvent(c, rec)
}
