package main

import "clion/cmd"

func main() {
	cmd.Execute()
}
