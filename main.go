package main

import "github.com/lu-zhengda/mailsift/internal/cli"

func main() {
	cli.Execute()
}
