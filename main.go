package main

import (
	"github.com/ridesim/dispatch-sim/cmd"
)

func main() {
	cmd.Execute()
}
