package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, cmd string, args []string, stdin string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(cmd, args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "version", nil, "")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestTypes(t *testing.T) {
	out, err := runCmd(t, "types", nil, "")
	require.NoError(t, err)

	var result map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result, 14)
	assert.Len(t, result["wifi"], 3)
	assert.Len(t, result["url"], 1)
}

func TestEncode(t *testing.T) {
	t.Run("url", func(t *testing.T) {
		out, err := runCmd(t, "encode", []string{"url"}, `{"fields":{"1":"example.com"}}`)
		require.NoError(t, err)
		assert.Contains(t, out, `"payload":"https://example.com"`)
	})

	t.Run("wifi nopass skips the password requirement", func(t *testing.T) {
		out, err := runCmd(t, "encode", []string{"wifi"}, `{"fields":{"1":"HomeNet","2":"nopass"}}`)
		require.NoError(t, err)
		assert.Contains(t, out, "WIFI:T:nopass;S:HomeNet;;")
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := runCmd(t, "encode", []string{"wifi"}, `{"fields":{"2":"WPA","3":"pw"}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("validation failure", func(t *testing.T) {
		_, err := runCmd(t, "encode", []string{"phone"}, `{"fields":{"1":"abc"}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "phone")
	})

	t.Run("bad choice", func(t *testing.T) {
		_, err := runCmd(t, "encode", []string{"crypto"}, `{"fields":{"1":"addr123","2":"DOGE"}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "choices")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := runCmd(t, "encode", []string{"hologram"}, `{}`)
		require.Error(t, err)
	})

	t.Run("optional field may be absent", func(t *testing.T) {
		out, err := runCmd(t, "encode", []string{"sms"}, `{"fields":{"1":"+1234567890"}}`)
		require.NoError(t, err)
		assert.Contains(t, out, "sms:+1234567890")
	})
}

func TestCheck(t *testing.T) {
	out, err := runCmd(t, "check", []string{"phone", "+1234567890"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid":true`)

	out, err = runCmd(t, "check", []string{"phone", "abc"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid":false`)

	_, err = runCmd(t, "check", []string{"psychic", "x"}, "")
	require.Error(t, err)
}

func TestChat(t *testing.T) {
	script := "create\nurl\nexample.com\n"
	out, err := runCmd(t, "chat", nil, script)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, "payload_ready", last["kind"])
	assert.Equal(t, "https://example.com", last["payload"])
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCmd(t, "bogus", nil, "")
	require.Error(t, err)
}
