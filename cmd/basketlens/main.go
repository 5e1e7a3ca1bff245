package main

import "github.com/basketlens/backend/cmd/basketlens/cmd"

func main() {
	cmd.Execute()
}
