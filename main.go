package main

import (
	"context"
	"fmt"
	"os"

	"github.com/oakwood-commons/flightform/cmd"
	"github.com/oakwood-commons/flightform/pkg/logger"
)

func main() {
	err := cmd.Execute(context.Background())
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flightform: %v\n", err)
		os.Exit(1)
	}
}
