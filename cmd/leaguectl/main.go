// Command leaguectl runs the league system's management tasks against the configured database.
package main

func main() {
	Execute()
}
