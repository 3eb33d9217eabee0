package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/polaris-bvh/cmd"
)

func main() {
	if err := cmd.NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
