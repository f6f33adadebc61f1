package main

import "github.com/Aawaiz-Soomro/LibraDB/cli"

func main() {
	cli.Execute()
}
