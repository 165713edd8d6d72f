package main

import "github.com/neo/passwordanalyzer/cmd"

func main() {
	cmd.Execute()
}
