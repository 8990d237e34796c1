// meditime keeps a list of medicines and reminds you when a dose is due.
//
// Usage:
//
//	meditime add NAME... [--dosage D] [--time HH:mm]... [--days every|mon,wed]
//	meditime list [QUERY]
//	meditime run [--headless]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hammamikhairi/meditime/internal/commands"
	"github.com/hammamikhairi/meditime/internal/domain"
)

func main() {
	if err := commands.New().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "meditime:", err)
		// Bad input and unknown references are the user's to fix.
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAmbiguous) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
