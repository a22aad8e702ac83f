package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores defaults; cobra keeps flag values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeRules(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dtogen.yaml")
	content := `rules:
  - label: number-people
    type: person
    edits:
      - op: increment
        path: name
        base: person-
  - label: third-is-special
    type: person
    edits:
      - op: set
        path: name
        value: CHANGED
    where:
      - op: value_eq
        path: name
        value: person-2
  - label: orders-only
    type: order
    edits:
      - op: set
        path: status
        value: SHIPPED
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGenerate_JSON(t *testing.T) {
	out, err := run(t, "generate", "--config=", "--type", "person", "--count", "3", "--format", "json")
	require.NoError(t, err)

	var people []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &people))
	require.Len(t, people, 3)

	assert.Equal(t, "DEFAULT", people[0]["name"])
	assert.Equal(t, "someone@example.com", people[0]["email"])
	home := people[0]["home"].(map[string]any)
	assert.Equal(t, "NL", home["country"])
	assert.NotEqual(t, people[0]["id"], people[1]["id"])
}

func TestGenerate_AppliesConfigRules(t *testing.T) {
	out, err := run(t, "generate", "--config", writeRules(t), "--type", "person", "--count", "4", "--format", "json")
	require.NoError(t, err)

	var people []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &people))
	require.Len(t, people, 4)

	names := make([]any, len(people))
	for i, p := range people {
		names[i] = p["name"]
	}
	assert.Equal(t, []any{"person-0", "person-1", "CHANGED", "person-3"}, names)
}

func TestGenerate_Dump(t *testing.T) {
	out, err := run(t, "generate", "--config=", "--type", "order", "--count", "1", "--format", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "sample.Order")
	assert.Contains(t, out, "NEW")
}

func TestGenerate_Errors(t *testing.T) {
	_, err := run(t, "generate", "--config=", "--type", "invoice", "--count", "1", "--format", "json")
	assert.ErrorContains(t, err, "unknown type")

	_, err = run(t, "generate", "--config=", "--type", "person", "--count", "1", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "generate", "--config=", "--type", "person", "--count", "0", "--format", "json")
	assert.ErrorContains(t, err, "generate.count")

	_, err = run(t, "generate", "--config=", "--type", "person", "--count", "1", "--format", "json", "--strict=true")
	assert.ErrorContains(t, err, "tags", "person tags have no generator")
}

func TestRules(t *testing.T) {
	out, err := run(t, "rules", "--config", writeRules(t))
	require.NoError(t, err)
	assert.Contains(t, out, "[person] number-people: DO INCREMENT EACH [name] FROM [person-] WHERE ALWAYS")
	assert.Contains(t, out, "[person] third-is-special: DO SET [name] TO [CHANGED] WHERE VALUE [name] IS [person-2]")
	assert.Contains(t, out, "[order] orders-only: DO SET [status] TO [SHIPPED] WHERE ALWAYS")
}
