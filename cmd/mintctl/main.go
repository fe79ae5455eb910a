package main

import "github.com/webmint/mint-go-cli/internal/cmd"

func main() {
	cmd.Execute()
}
