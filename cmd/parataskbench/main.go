// Command parataskbench runs a handful of configurable paratask scenarios
// and reports their wall-clock duration, for eyeballing scheduler overhead.
package main

import "github.com/joeycumines/go-paratask/cmd/parataskbench/cmd"

func main() {
	cmd.Execute()
}
