package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		if !errors.Is(err, errFailedResult) {
			fmt.Fprintf(os.Stderr, "diagnose: %v\n", err)
		}
		os.Exit(1)
	}
}
