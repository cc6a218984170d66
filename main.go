package main

import "github.com/boazmichaely/JobHuntAI/cmd"

func main() {
	cmd.Execute()
}
