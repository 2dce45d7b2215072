package main

import (
	"fmt"
	"os"

	"custodian.io/cmd/cli"
)

func main() {
	if err := cli.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
