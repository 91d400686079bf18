package main

import "reschool-widgets/cmd"

func main() {
	cmd.Execute()
}
