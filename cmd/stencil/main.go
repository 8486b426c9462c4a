package main

import (
	"os"

	"github.com/stencil-tools/stencil/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
