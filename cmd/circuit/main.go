package main

import "thevenin/cmd/circuit/cmd"

func main() {
	cmd.Execute()
}
