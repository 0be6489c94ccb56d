// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/botctl/botctl/pkg/commands/clean"
	"github.com/botctl/botctl/pkg/commands/genconfig"
	"github.com/botctl/botctl/pkg/commands/initialize"
	"github.com/botctl/botctl/pkg/commands/list"
	"github.com/botctl/botctl/pkg/commands/status"
	"github.com/botctl/botctl/pkg/commands/virtualenv"
	"github.com/botctl/botctl/pkg/venv"
)

const timestampLayout = "2006-01-02 15:04"

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders a command result as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *virtualenv.ProvisionResult:
		return r.write(renderProvision(v))
	case *clean.CleanResult:
		return r.write(renderClean(v))
	case *status.StatusResult:
		return r.write(renderStatus(v))
	case *list.ListResult:
		return r.write(renderList(v))
	case *initialize.InitResult:
		return r.write(renderInit(v))
	case *genconfig.GenConfigResult:
		_, err := io.WriteString(r.output, v.ConfigContent)
		return err
	default:
		// For unknown types, just print them
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.write(msg)
}

func (r *Renderer) write(s string) error {
	_, err := fmt.Fprintln(r.output, s)
	return err
}

func renderProvision(result *virtualenv.ProvisionResult) string {
	switch result.Status {
	case venv.StatusUpToDate:
		return fmt.Sprintf("virtualenv for %s is up to date", result.Instance.Name)
	case venv.StatusRecreated:
		return fmt.Sprintf("virtualenv for %s recreated in %s", result.Instance.Name, result.Instance.Config.VenvDir)
	case venv.StatusReinstalled:
		return fmt.Sprintf("requirements for %s reinstalled in %s", result.Instance.Name, result.Instance.Config.VenvDir)
	default:
		return fmt.Sprintf("virtualenv for %s created in %s", result.Instance.Name, result.Instance.Config.VenvDir)
	}
}

func renderClean(result *clean.CleanResult) string {
	if !result.Removed {
		return fmt.Sprintf("no virtualenv to remove for %s", result.Instance.Name)
	}
	return fmt.Sprintf("removed virtualenv for %s", result.Instance.Name)
}

func renderStatus(result *status.StatusResult) string {
	inst := result.Instance
	cfg := inst.Config

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%s)\n", inst.Name, inst.Dir))

	if result.VenvPresent {
		line := fmt.Sprintf("  virtualenv: %s", cfg.VenvDir)
		if result.PythonVersion != "" {
			line += fmt.Sprintf(" (python %s)", result.PythonVersion)
		}
		b.WriteString(line + "\n")
	} else {
		b.WriteString("  virtualenv: missing\n")
	}

	b.WriteString(fileLine("entrypoint", cfg.Entrypoint, result.EntrypointPresent))
	b.WriteString(fileLine("config file", cfg.ConfigFile, result.ConfigFilePresent))
	b.WriteString(fileLine("requirements", cfg.Requirements, result.RequirementsPresent))

	if result.RequirementsPresent && result.VenvPresent {
		if result.RequirementsFresh {
			b.WriteString(fmt.Sprintf("  installed: %s\n", result.RequirementsChecksum))
		} else {
			b.WriteString("  installed: requirements changed since last install\n")
		}
	}

	if entry := result.Registry; entry != nil {
		if entry.ProvisionedAt != nil {
			b.WriteString(fmt.Sprintf("  provisioned: %s\n", entry.ProvisionedAt.Format(timestampLayout)))
		}
		if entry.LastRunAt != nil {
			b.WriteString(fmt.Sprintf("  last run: %s\n", entry.LastRunAt.Format(timestampLayout)))
		}
		if entry.CleanedAt != nil {
			b.WriteString(fmt.Sprintf("  cleaned: %s\n", entry.CleanedAt.Format(timestampLayout)))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderList(result *list.ListResult) string {
	if len(result.Instances) == 0 {
		return "No instances registered"
	}

	var b strings.Builder
	for _, entry := range result.Instances {
		state := "missing"
		if entry.VenvPresent {
			state = "ready"
		}
		line := fmt.Sprintf("%s\t%s\t%s", entry.Name, state, entry.Dir)
		if entry.LastRunAt != nil {
			line += "\tlast run " + entry.LastRunAt.Format(timestampLayout)
		}
		b.WriteString(line + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderInit(result *initialize.InitResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Initialized instance %s\n", result.Instance.Name))

	for _, path := range result.FilesCreated {
		b.WriteString(fmt.Sprintf("  created %s\n", path))
	}
	for _, path := range result.FilesSkipped {
		b.WriteString(fmt.Sprintf("  skipped %s (exists)\n", path))
	}

	return strings.TrimRight(b.String(), "\n")
}

func fileLine(label, name string, present bool) string {
	state := "missing"
	if present {
		state = "present"
	}
	return fmt.Sprintf("  %s: %s (%s)\n", label, name, state)
}
