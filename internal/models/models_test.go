package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRequest_ToTable(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		width   int
	}{
		{
			name:  "column-major table",
			body:  `{"table":{"index":["2024-01-01T00:00:00Z","2024-01-02T00:00:00Z"],"columns":["a"],"data":[[1,null]]}}`,
			width: 1,
		},
		{
			name:  "records",
			body:  `{"times":["2024-01-02","2024-01-01"],"fields":{"b":[2,null],"a":[1,3]}}`,
			width: 2,
		},
		{
			name:    "empty body",
			body:    `{}`,
			wantErr: true,
		},
		{
			name:    "both forms",
			body:    `{"table":{"index":[],"columns":[],"data":[]},"times":["2024-01-01"],"fields":{"a":[1]}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TableRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			tbl, err := req.ToTable()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width, tbl.Width())
		})
	}
}
