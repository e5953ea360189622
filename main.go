package main

import "github.com/Yates-Labs/gitmine/cmd"

func main() {
	cmd.Execute()
}
