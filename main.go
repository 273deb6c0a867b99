package main

import (
	"auxbox/helpers"
	"auxbox/helpers/logs"
	"auxbox/modules/web"
)

func init() {
	logs.GetLogger().Info(`Starting ...`)
	helpers.GetXORM()
}

func main() {

	// close properly
	defer helpers.GetXORM().Close()

	web.Run()
}
