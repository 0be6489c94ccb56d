package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTopicsFS() fstest.MapFS {
	return fstest.MapFS{
		"instances.md":    {Data: []byte("# Instances\n\nHow instance directories work")},
		"provisioning.md": {Data: []byte("# Provisioning\n\nVirtualenv lifecycle")},
		"option-force.md": {Data: []byte("# --force\n\nRebuild even when up to date")},
		"notes.txt":       {Data: []byte("Plain text notes")},
		"ignore.json":     {Data: []byte("not a topic")},
	}
}

func TestScanTopics(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(testTopicsFS())
		require.NoError(t, tm.scanTopics())

		tests := []struct {
			name   string
			exists bool
		}{
			{"instances", true},
			{"provisioning", true},
			{"notes", true},
			{"ignore", false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, exists := tm.GetTopic(tt.name)
				assert.Equal(t, tt.exists, exists)
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(testTopicsFS(), Options{Extensions: []string{".md"}})
		require.NoError(t, tm.scanTopics())

		_, exists := tm.GetTopic("notes")
		assert.False(t, exists, ".txt should be excluded by custom extensions")

		_, exists = tm.GetTopic("instances")
		assert.True(t, exists)
	})
}

func TestGetTopicFlagStyle(t *testing.T) {
	tm := New(testTopicsFS())
	require.NoError(t, tm.scanTopics())

	// --force resolves through the option- prefix convention
	topic, exists := tm.GetTopic("--force")
	require.True(t, exists)
	assert.Equal(t, "option-force", topic.Name)

	topic, exists = tm.GetTopic("force")
	require.True(t, exists)
	assert.Equal(t, "option-force", topic.Name)
}

func newTestRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	rootCmd := &cobra.Command{Use: "botctl"}
	rootCmd.AddCommand(&cobra.Command{
		Use: "run",
		Run: func(cmd *cobra.Command, args []string) {},
	})
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	require.NoError(t, Initialize(rootCmd, testTopicsFS()))
	return rootCmd, buf
}

func TestHelpCommand(t *testing.T) {
	t.Run("help <topic> prints the topic", func(t *testing.T) {
		rootCmd, buf := newTestRoot(t)
		rootCmd.SetArgs([]string{"help", "instances"})
		require.NoError(t, rootCmd.Execute())

		assert.Contains(t, buf.String(), "How instance directories work")
	})

	t.Run("help topics lists general and option topics", func(t *testing.T) {
		rootCmd, buf := newTestRoot(t)
		rootCmd.SetArgs([]string{"help", "topics"})
		require.NoError(t, rootCmd.Execute())

		out := buf.String()
		assert.Contains(t, out, "General topics:")
		assert.Contains(t, out, "instances")
		assert.Contains(t, out, "Option topics:")
		assert.Contains(t, out, "--force")
		assert.Contains(t, out, "botctl help <topic>")
	})

	t.Run("help <command> falls back to cobra help", func(t *testing.T) {
		rootCmd, buf := newTestRoot(t)
		rootCmd.SetArgs([]string{"help", "run"})
		require.NoError(t, rootCmd.Execute())

		assert.Contains(t, buf.String(), "Usage:")
		assert.Contains(t, buf.String(), "botctl run")
	})
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# Left alone", r.Render("# Left alone", ".md"))
}

func TestGlamourRendererPassesThroughNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain notes", r.Render("plain notes", ".txt"))
}
