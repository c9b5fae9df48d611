package main

import "github.com/chukul/aimsctl/cmd"

func main() {
	cmd.Execute()
}
