package main

import "centavo/cmd"

func main() {
	cmd.Execute()
}
