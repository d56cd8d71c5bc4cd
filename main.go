// The main package for the dealsite executable.
package main

import (
	"github.com/JakeFAU/dealsite-ssr/cmd"
)

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
