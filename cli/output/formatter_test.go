package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"TABLE", FormatTable, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatter_PrintTable(t *testing.T) {
	data := TableData{
		Headers: []string{"PACKAGE", "GLOBAL"},
		Rows:    [][]string{{"@wordpress/element", "wp.element"}},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatTable, false, false, &buf).PrintTable(data))
		assert.Contains(t, buf.String(), "PACKAGE")
		assert.Contains(t, buf.String(), "wp.element")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatJSON, false, false, &buf).PrintTable(data))
		assert.JSONEq(t, `[{"package":"@wordpress/element","global":"wp.element"}]`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatYAML, false, false, &buf).PrintTable(data))
		assert.Contains(t, buf.String(), "global: wp.element")
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatTable, false, true, &buf).PrintTable(data))
		assert.Empty(t, buf.String())
	})
}
