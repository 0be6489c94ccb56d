package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/botctl/botctl/internal/cli"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/ui/styles"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// A bot's own exit code passes through untouched; the bot
		// already wrote its output
		var exitErr *execx.ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			os.Exit(int(exitErr.Code))
		}

		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(int(execx.ExitCodeFromError(err)))
	}
}
