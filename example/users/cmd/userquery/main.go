// Command userquery looks up users through the dynamic filter repository.
//
//	userquery find --props "level=,email.address+" --values admin,%@example.com --sort login
//	userquery get 3f0c8a7e-5b7a-4a43-9a55-2f1d3b1c9e10
//	userquery one --props login --values alice
//	userquery field email.address --props "level!=" --values guest
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(openUserRepository).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
