package main

import "github.com/bstrange24/XRPL-Utility-sub000/internal/cli"

func main() {
	cli.Execute()
}
