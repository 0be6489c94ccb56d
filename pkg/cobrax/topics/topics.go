// Package topics provides a pluggable, topic-based help system for Cobra CLI
// applications. It extends the default Cobra help functionality to support
// arbitrary help topics loaded from an fs.FS, so a binary can ship its
// long-form documentation embedded.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// TopicManager manages help topics for a Cobra application
type TopicManager struct {
	topicsFS     fs.FS
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	extensions   []string
	renderer     Renderer
}

// Topic represents a help topic
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Options configures the TopicManager
type Options struct {
	// Extensions is the list of file extensions to consider as topics
	// Defaults to [".txt", ".md"] if not specified
	Extensions []string

	// Renderer for formatting topic content (optional)
	// Defaults to PlainRenderer if not specified
	Renderer Renderer
}

// New creates a new TopicManager over the given filesystem
func New(topicsFS fs.FS) *TopicManager {
	return NewWithOptions(topicsFS, Options{})
}

// NewWithOptions creates a new TopicManager with custom options
func NewWithOptions(topicsFS fs.FS, opts Options) *TopicManager {
	tm := &TopicManager{
		topicsFS:   topicsFS,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}

	if len(tm.extensions) == 0 {
		tm.extensions = []string{".txt", ".md"}
	}
	if tm.renderer == nil {
		tm.renderer = &PlainRenderer{}
	}

	return tm
}

// scanTopics walks the filesystem and loads every supported topic file
func (tm *TopicManager) scanTopics() error {
	return fs.WalkDir(tm.topicsFS, ".", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(filePath)
		supported := false
		for _, validExt := range tm.extensions {
			if ext == validExt {
				supported = true
				break
			}
		}
		if !supported {
			return nil
		}

		content, err := fs.ReadFile(tm.topicsFS, filePath)
		if err != nil {
			return err
		}

		topicName := strings.TrimSuffix(path.Base(filePath), ext)
		tm.topics[topicName] = &Topic{
			Name:    topicName,
			Path:    filePath,
			Content: string(content),
		}

		return nil
	})
}

// GetTopic retrieves a topic by name
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	// Handle flag-style topics (e.g., --force -> force)
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	topic, exists := tm.topics[name]
	if exists {
		return topic, true
	}

	// For flag-style topics, also try with "option-" prefix
	topic, exists = tm.topics["option-"+name]
	return topic, exists
}

// ListTopics returns all available topic names
func (tm *TopicManager) ListTopics() []string {
	topics := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		topics = append(topics, name)
	}
	return topics
}

// render formats a topic through the configured renderer
func (tm *TopicManager) render(topic *Topic) string {
	return tm.renderer.Render(topic.Content, path.Ext(topic.Path))
}

// Initialize sets up the topic-based help system with default options
func Initialize(rootCmd *cobra.Command, topicsFS fs.FS) error {
	return InitializeWithOptions(rootCmd, topicsFS, Options{})
}

// InitializeWithOptions sets up the topic-based help system with custom
// options. It replaces the root help command with one that also resolves
// topic names, and teaches --help to do the same.
func InitializeWithOptions(rootCmd *cobra.Command, topicsFS fs.FS, opts Options) error {
	tm := NewWithOptions(topicsFS, opts)

	if err := tm.scanTopics(); err != nil {
		return fmt.Errorf("failed to scan topics: %w", err)
	}

	tm.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}

			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}

			completions = append(completions, tm.ListTopics()...)

			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				tm.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				tm.printTopicList(cmd, rootCmd.Name())
				return
			}

			if topic, exists := tm.GetTopic(args[0]); exists {
				cmd.Print(tm.render(topic))
				return
			}

			// Not a topic - resolve as a command path and fall back
			// to the original help
			target, _, err := rootCmd.Find(args)
			if err != nil || target == nil {
				target = rootCmd
			}
			tm.originalHelp(target, args)
		},
	}

	// Replace any existing help command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	// Also override the help function so --help can resolve topics
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, exists := tm.GetTopic(args[0]); exists {
				cmd.Print(tm.render(topic))
				return
			}
		}

		tm.originalHelp(cmd, args)
	})

	return nil
}

// printTopicList writes the sorted topic index
func (tm *TopicManager) printTopicList(cmd *cobra.Command, rootName string) {
	topics := tm.ListTopics()
	if len(topics) == 0 {
		cmd.Println("No help topics available.")
		return
	}

	sort.Strings(topics)

	var options []string
	var general []string
	for _, name := range topics {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	cmd.Println("Available help topics:")
	if len(general) > 0 {
		cmd.Println("\nGeneral topics:")
		for _, name := range general {
			cmd.Printf("  %s\n", name)
		}
	}
	if len(options) > 0 {
		cmd.Println("\nOption topics:")
		for _, name := range options {
			cmd.Printf("  --%s\n", name)
		}
	}

	cmd.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", rootName)
}
