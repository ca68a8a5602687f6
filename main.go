package main

import "github.com/KaramelBytes/salesloom-cli/cmd"

func main() {
	cmd.Execute()
}
