package cli

import (
	"embed"
	"io/fs"
)

//go:embed help
var helpFiles embed.FS

// helpTopics returns the embedded help documents rooted at the topic
// files themselves
func helpTopics() fs.FS {
	sub, err := fs.Sub(helpFiles, "help")
	if err != nil {
		return helpFiles
	}
	return sub
}
