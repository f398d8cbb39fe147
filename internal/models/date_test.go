package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"date only", `"2025-05-01"`, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", `"2025-05-01T10:30:00+02:00"`, time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"fractional seconds", `"2025-05-01T10:30:00.123456Z"`, time.Date(2025, 5, 1, 10, 30, 0, 123456000, time.UTC)},
		{"no zone", `"2025-05-01T10:30:00"`, time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %s", d.Time)
		})
	}
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"May 1st"`), &d))
}

func TestDocument_DateOnlyCreated(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"Invoice","tags":[2],"created":"2025-05-01","added":"2025-05-02T09:00:00Z"}`), &doc))

	require.NotNil(t, doc.Created)
	assert.Equal(t, "2025-05-01", doc.Created.String())
	require.NotNil(t, doc.Added)
	assert.Equal(t, 9, doc.Added.Hour())
}

func TestDocument_NullCreated(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"Invoice","created":null}`), &doc))
	assert.Nil(t, doc.Created)
}

func TestDate_Marshal(t *testing.T) {
	out, err := json.Marshal(Date{time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-05-01"`, string(out))

	out, err = json.Marshal(Date{time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-05-01T12:00:00Z"`, string(out))
}
