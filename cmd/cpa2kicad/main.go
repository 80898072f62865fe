package main

import "github.com/OpenTraceLab/cpa2kicad/cmd/cpa2kicad/cmd"

func main() {
	cmd.Execute()
}
