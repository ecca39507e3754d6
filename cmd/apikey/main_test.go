package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/scan-relay/internal/auth"
)

func TestRun_PrintsVerifiableHash(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(strings.NewReader("front-desk\n"), &out))

	hash := strings.TrimSpace(out.String())
	v := auth.NewAPIKeyVerifier("", hash)
	assert.True(t, v.Verify("front-desk"))
	assert.False(t, v.Verify("front-desk\n"))
}

func TestRun_KeyWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(strings.NewReader("gate-key"), &out))

	assert.True(t, auth.NewAPIKeyVerifier("", strings.TrimSpace(out.String())).Verify("gate-key"))
}

func TestRun_EmptyInput(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(strings.NewReader(""), &out))
	assert.Error(t, run(strings.NewReader("\n"), &out))
	assert.Empty(t, out.String())
}
