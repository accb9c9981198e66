// The main package for the brandscan executable.
package main

import "github.com/JakeFAU/brandscan/cmd"

func main() {
	cmd.Execute()
}
