// rgrep is a grep(1)-like utility for searching text with regular expressions.
package main

import (
	"fmt"
	"os"

	"github.com/jparise/rgrep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
