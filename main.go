package main

import "github.com/kamal-hamza/imgresize/cmd"

func main() {
	cmd.Execute()
}
