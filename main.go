package main

import "github.com/devopstales/netbox-registrator/cmd"

func main() {
	cmd.Execute()
}
