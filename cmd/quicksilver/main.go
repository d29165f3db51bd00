package main

import "github.com/quicksilvermail/quicksilver/internal/cli"

func main() {
	cli.Execute()
}
