package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/TimurManjosov/govtag/cmd/vtag/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !errors.Is(err, commands.ErrNotValid) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
