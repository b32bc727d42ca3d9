// Command advicedemo runs the advice lifecycle demos.
package main

import (
	"os"

	"github.com/junioryono/advice/internal/demo"
)

func main() {
	demo.Execute(os.Stdout, os.Stderr)
}
