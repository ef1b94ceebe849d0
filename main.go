package main

import "github.com/caraveo/aske/cmd"

func main() {
	cmd.Execute()
}
