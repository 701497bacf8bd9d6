package main

import (
	"context"
	"os"

	"github.com/aimarketer/aimarketer/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
