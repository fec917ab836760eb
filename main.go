package main

import "github.com/comonadd/codetemplate/cmd"

func main() {
	cmd.Execute()
}
