package main

import "github.com/salesops/sales-ingress/cmd"

func main() {
	cmd.Execute()
}
