// go_transcript is a YouTube transcript reliability probe.
//
// Fetches time-coded transcripts for single videos and evaluates, over batches of
// review videos found by keyword search, how reliably transcripts can be obtained.
// Runs as a CLI (video, batch, compare) or as an MCP server (serve).
package main

import "github.com/anatolykoptev/go_transcript/cmd"

func main() {
	cmd.Execute()
}
