package main

import "github.com/ChasLui/dokploy/cmd"

func main() {
	cmd.Execute()
}
