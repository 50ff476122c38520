package main

import "mrboard/internal/cli"

func main() {
	cli.Execute()
}
