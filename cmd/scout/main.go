package main

import "github.com/vdistack/scout/pkg/cli"

func main() {
	cli.Execute()
}
