package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/patientedu/internal/platform/postgres"
)

func TestHashPasswordCmd(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{name: "argument", args: []string{"hash-password", "64546"}},
		{name: "stdin", args: []string{"hash-password"}, stdin: "64546\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			root := newRootCmd()
			root.SetArgs(tt.args)
			root.SetIn(strings.NewReader(tt.stdin))
			root.SetOut(&out)

			require.NoError(t, root.Execute())

			hash := strings.TrimSpace(out.String())
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("64546")))
		})
	}
}

func TestReadPassword_Empty(t *testing.T) {
	_, err := readPassword(strings.NewReader("\n"), nil)
	assert.Error(t, err)
}

func TestExportCmd_RequiresFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"export", "--section", "cardiology"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disease")
}

func TestWriteJournal(t *testing.T) {
	session := uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000000")
	var out bytes.Buffer

	require.NoError(t, writeJournal(&out, []postgres.Entry{{
		SessionID: session,
		Revision:  4,
		EventType: "section.added",
		Payload:   []byte(`{"sectionId":"cardiology"}`),
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "CREATED"))
	assert.Contains(t, lines[1], "2026-01-02T03:04:05Z")
	assert.Contains(t, lines[1], "6f1c2d3e")
	assert.Contains(t, lines[1], "section.added")
	assert.Contains(t, lines[1], `{"sectionId":"cardiology"}`)
}
