package main

import "lensadmin/cmd/lensadmin/cmd"

func main() {
	cmd.Execute()
}
