package main

import "github.com/maxvaer/headfuzz/cmd"

func main() {
	cmd.Execute()
}
