package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadRoster(t *testing.T) {
	path := writeRoster(t, `[
		{"id":"1","hashKey":"hash-0001","name":"Ada","isBranchManager":true},
		{"id":"2","hashKey":"hash_0002","name":"Bo","attendance":"Checked in"}
	]`)

	employees, err := readRoster(path)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.True(t, employees[0].IsBranchManager)
	assert.Equal(t, "Not checked in", employees[0].Attendance)
	assert.Equal(t, "Checked in", employees[1].Attendance)
}

func TestReadRoster_AcceptsAnyKeyShape(t *testing.T) {
	path := writeRoster(t, `[
		{"id":"1","hashKey":"aGVsbG8="},
		{"id":"2","hashKey":"emp.0002.x"},
		{"id":"3","hashKey":"ab cd"}
	]`)

	employees, err := readRoster(path)
	require.NoError(t, err)
	require.Len(t, employees, 3)
	assert.Equal(t, "aGVsbG8=", employees[0].HashKey)
	assert.Equal(t, "emp.0002.x", employees[1].HashKey)
}

func TestReadRoster_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `[{"id":`},
		{"missing id", `[{"hashKey":"hash-0001"}]`},
		{"short key", `[{"id":"1","hashKey":"ab"}]`},
		{"missing key", `[{"id":"1","name":"Ada"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readRoster(writeRoster(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := readRoster(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
