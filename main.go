/*
Copyright © 2026 ReUp contributors
*/
package main

import "github.com/reupapp/reup/cmd"

func main() {
	cmd.Execute()
}
