package main

import (
	"fmt"
	"os"

	"stickershop/internal/cli"
)

func main() {
	if err := cli.ExecuteMigrate(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
