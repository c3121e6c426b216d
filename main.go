package main

import "github.com/Alturino/checkout/cmd"

func main() {
	cmd.Start()
}
