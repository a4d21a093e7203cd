package main

import (
	"escmon/cmd/cmd"
)

func main() {
	cmd.Execute()
}
