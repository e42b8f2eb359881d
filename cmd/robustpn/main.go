// Command robustpn minimizes robust P^n-Potts energies read from YAML
// problem files and writes one result file per problem.
//
// Usage:
//
//	robustpn [flags] problem.yaml...
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "robustpn:", err)
		os.Exit(1)
	}
}
