package main

import "github.com/01moynul/valuefurniture-golang/cmd/vfctl/commands"

func main() {
	commands.Execute()
}
