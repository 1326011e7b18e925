package main

import "github.com/vlad4uk/padaroja-cli/cmd"

func main() {
	cmd.Execute()
}
