// Command extractinator extracts documentation from TypeScript modules and
// Svelte components.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		if !errors.Is(err, errAllFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
