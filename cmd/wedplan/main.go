package main

import "github.com/mcoot/weddingplanner/internal/cli"

func main() {
	cli.Execute()
}
