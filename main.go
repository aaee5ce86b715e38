package main

import (
	"github.com/planscope/planscope/cmd"
)

func main() {
	cmd.Execute()
}
