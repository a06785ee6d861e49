package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidyapp/tidy/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		// Commands that already printed their output signal the exit
		// code without a message.
		var ee *cli.ExitError
		if !errors.As(err, &ee) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
