// knpctl inspects KNP site files and serves their tile images without the
// desktop app.
package main

func main() {
	Execute()
}
