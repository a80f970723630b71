package main

import (
	"github.com/MeKo-Tech/fidmark/cmd/fidmark/cmd"
)

func main() {
	cmd.Execute()
}
