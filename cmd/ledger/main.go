// Command ledger administers the classification history outside the server:
// importing legacy snapshots, regenerating the snapshot, listing, and resetting.
package main

func main() {
	Execute()
}
