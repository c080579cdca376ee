// Command formbuilder runs the form builder API and its terminal tools.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-formbuilder/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "formbuilder:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
