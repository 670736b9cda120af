package main

import "github.com/FACorreiaa/go-tourism-planner/internal/cli"

func main() {
	cli.Execute()
}
