package main

import "github.com/Tiliavir/tempo/cmd"

func main() {
	cmd.Execute()
}
