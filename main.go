package main

import (
	"os"

	"github.com/reputable-tech/memory-bank/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
