// Command kerf measures cut parts in DXF drawings and prices them.
package main

import "github.com/chazu/kerf/cmd/kerf/cmd"

func main() {
	cmd.Execute()
}
