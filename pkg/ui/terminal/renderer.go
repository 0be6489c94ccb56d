// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/botctl/botctl/pkg/commands/clean"
	"github.com/botctl/botctl/pkg/commands/genconfig"
	"github.com/botctl/botctl/pkg/commands/initialize"
	"github.com/botctl/botctl/pkg/commands/list"
	"github.com/botctl/botctl/pkg/commands/status"
	"github.com/botctl/botctl/pkg/commands/virtualenv"
	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/ui/styles"
	"github.com/botctl/botctl/pkg/venv"
)

const timestampLayout = "2006-01-02 15:04"

// Renderer provides rich terminal output using lipgloss styling
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders a command result with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *virtualenv.ProvisionResult:
		return r.write(r.renderProvision(v))
	case *clean.CleanResult:
		return r.write(r.renderClean(v))
	case *status.StatusResult:
		return r.write(r.renderStatus(v))
	case *list.ListResult:
		return r.write(r.renderList(v))
	case *initialize.InitResult:
		return r.write(r.renderInit(v))
	case *genconfig.GenConfigResult:
		// TOML output is frequently redirected into a file, keep it
		// byte-for-byte clean
		_, err := io.WriteString(r.output, v.ConfigContent)
		return err
	default:
		// For unknown types, just print them
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	if err == nil {
		return nil
	}

	var botctlErr *errors.BotctlError
	if stderrors.As(err, &botctlErr) {
		return r.write(fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(botctlErr.Code),
			err.Error()))
	}

	return r.write(fmt.Sprintf("%s %s",
		pterm.Error.Prefix.Text,
		pterm.Error.MessageStyle.Sprint(err.Error())))
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.write(fmt.Sprintf("%s %s", pterm.Info.Prefix.Text, msg))
}

func (r *Renderer) write(s string) error {
	_, err := fmt.Fprintln(r.output, s)
	return err
}

func (r *Renderer) renderProvision(result *virtualenv.ProvisionResult) string {
	name := styles.GetStyle("InstanceName").Render(result.Instance.Name)
	venvDir := styles.GetStyle("Path").Render(result.Instance.Config.VenvDir)

	switch result.Status {
	case venv.StatusUpToDate:
		return fmt.Sprintf("%s virtualenv for %s is up to date", infoIndicator(), name)
	case venv.StatusRecreated:
		return fmt.Sprintf("%s virtualenv for %s recreated in %s", successIndicator(), name, venvDir)
	case venv.StatusReinstalled:
		return fmt.Sprintf("%s requirements for %s reinstalled in %s", successIndicator(), name, venvDir)
	default:
		return fmt.Sprintf("%s virtualenv for %s created in %s", successIndicator(), name, venvDir)
	}
}

func (r *Renderer) renderClean(result *clean.CleanResult) string {
	name := styles.GetStyle("InstanceName").Render(result.Instance.Name)
	if !result.Removed {
		return fmt.Sprintf("%s no virtualenv to remove for %s", infoIndicator(), name)
	}
	return fmt.Sprintf("%s removed virtualenv for %s", successIndicator(), name)
}

func (r *Renderer) renderStatus(result *status.StatusResult) string {
	inst := result.Instance
	cfg := inst.Config

	var b strings.Builder
	b.WriteString(styles.GetStyle("Header").Render(inst.Name) + " " +
		styles.GetStyle("Path").Render(inst.Dir) + "\n")

	label := styles.GetStyle("Label")

	// Virtualenv state
	if result.VenvPresent {
		venvValue := cfg.VenvDir
		if result.PythonVersion != "" {
			venvValue += " (python " + result.PythonVersion + ")"
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", successIndicator(), label.Render("virtualenv"), venvValue))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s missing\n", errorIndicator(), label.Render("virtualenv")))
	}

	// Instance files
	b.WriteString(fileLine("entrypoint", cfg.Entrypoint, result.EntrypointPresent))
	b.WriteString(fileLine("config file", cfg.ConfigFile, result.ConfigFilePresent))
	b.WriteString(fileLine("requirements", cfg.Requirements, result.RequirementsPresent))

	// Requirements freshness only means something once both the file
	// and the virtualenv exist
	if result.RequirementsPresent && result.VenvPresent {
		if result.RequirementsFresh {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", successIndicator(), label.Render("installed"),
				styles.GetStyle("Checksum").Render(result.RequirementsChecksum)))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s requirements changed since last install\n",
				warningIndicator(), label.Render("installed")))
		}
	}

	// Registry history
	if entry := result.Registry; entry != nil {
		if entry.ProvisionedAt != nil {
			b.WriteString(historyLine("provisioned", entry.ProvisionedAt))
		}
		if entry.LastRunAt != nil {
			b.WriteString(historyLine("last run", entry.LastRunAt))
		}
		if entry.CleanedAt != nil {
			b.WriteString(historyLine("cleaned", entry.CleanedAt))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) renderList(result *list.ListResult) string {
	if len(result.Instances) == 0 {
		return styles.GetStyle("Muted").Render("No instances registered")
	}

	var b strings.Builder
	b.WriteString(styles.GetStyle("Header").Render("Registered instances") + "\n")

	for _, entry := range result.Instances {
		indicator := errorIndicator()
		if entry.VenvPresent {
			indicator = successIndicator()
		}
		line := fmt.Sprintf("  %s %s %s", indicator,
			styles.GetStyle("InstanceName").Render(entry.Name),
			styles.GetStyle("Path").Render(entry.Dir))
		if entry.LastRunAt != nil {
			line += " " + styles.GetStyle("Muted").Render("last run "+entry.LastRunAt.Format(timestampLayout))
		}
		b.WriteString(line + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) renderInit(result *initialize.InitResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Initialized instance %s\n",
		styles.GetStyle("InstanceName").Render(result.Instance.Name)))

	for _, path := range result.FilesCreated {
		b.WriteString(fmt.Sprintf("  %s %s\n", successIndicator(), styles.GetStyle("Path").Render(path)))
	}
	for _, path := range result.FilesSkipped {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", infoIndicator(),
			styles.GetStyle("Path").Render(path),
			styles.GetStyle("Muted").Render("(exists, unchanged)")))
	}

	return strings.TrimRight(b.String(), "\n")
}

func fileLine(label, name string, present bool) string {
	indicator := errorIndicator()
	if present {
		indicator = successIndicator()
	}
	return fmt.Sprintf("  %s %s %s\n", indicator,
		styles.GetStyle("Label").Render(label), name)
}

func historyLine(label string, at *time.Time) string {
	return fmt.Sprintf("  %s %s %s\n", infoIndicator(),
		styles.GetStyle("Label").Render(label), at.Format(timestampLayout))
}

func successIndicator() string { return styles.GetStyle("Success").Render("✓") }
func errorIndicator() string   { return styles.GetStyle("Error").Render("✗") }
func warningIndicator() string { return styles.GetStyle("Warning").Render("!") }
func infoIndicator() string    { return styles.GetStyle("Info").Render("•") }
