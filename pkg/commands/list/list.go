// Package list implements the list command: show every instance the
// registry knows about.
package list

import (
	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/python"
	"github.com/botctl/botctl/pkg/registry"
)

// ListOptions defines the options for the List command
type ListOptions struct {
	// FileSystem is the filesystem to use (optional, defaults to the
	// OS filesystem)
	FileSystem afero.Fs
}

// ListEntry is one registered instance plus its current on-disk state
type ListEntry struct {
	registry.Entry

	// VenvPresent reports whether the registered virtualenv still
	// exists on disk
	VenvPresent bool `json:"venvPresent"`
}

// ListResult holds all registered instances
type ListResult struct {
	Instances []ListEntry `json:"instances"`
}

// List reads the registry and checks each registered virtualenv
// against the filesystem
func List(opts ListOptions) (*ListResult, error) {
	logger := logging.GetLogger("commands.list")
	logger.Debug().Msg("Listing registered instances")

	fs := opts.FileSystem
	if fs == nil {
		fs = afero.NewOsFs()
	}

	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	reg, err := registry.Open(p.RegistryPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reg.Close()
	}()

	entries, err := reg.List()
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Instances: make([]ListEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		result.Instances = append(result.Instances, ListEntry{
			Entry:       entry,
			VenvPresent: python.IsVenv(fs, entry.VenvPath),
		})
	}

	logger.Debug().Int("count", len(result.Instances)).Msg("Listed instances")
	return result, nil
}
