package main

import "blog-platform/cmd/app/commands"

func main() {
	commands.Execute()
}
