package main

import "github.com/issuekit/issuekit/internal/cli"

func main() {
	cli.Execute()
}
