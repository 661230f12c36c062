package main

import "github.com/iliyamo/table-reservation/cmd/server/command"

func main() {
	command.Execute()
}
