package main

import "github.com/davarch/actions-dash/cmd/actions-dash/cli"

func main() {
	cli.Execute()
}
