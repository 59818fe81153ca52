package main

import "github.com/dalemusser/yatube/internal/app/cli"

func main() {
	cli.Execute()
}
