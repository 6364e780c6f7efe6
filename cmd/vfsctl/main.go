// Command vfsctl is a small shell-like driver over the vfs package, useful
// for exercising a mount configuration from the command line without
// writing Go.
package main

func main() {
	Execute()
}
