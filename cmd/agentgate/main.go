package main

import "github.com/evalsec/agentgate/internal/cli"

func main() {
	cli.Execute()
}
