package main

import (
	"os"

	"github.com/awardgraph/awardgraph/cmd/awardgraph"
)

func main() {
	if err := awardgraph.Execute(); err != nil {
		os.Exit(1)
	}
}
