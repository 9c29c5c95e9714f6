package main

import "mesh_flood/cmd"

func main() {
	cmd.Execute()
}
