package main

import "github.com/andrescamacho/floorsense-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
