package main

import (
	"docsparser/cmd/docsparser/commands"
	"docsparser/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
