// Command audioscript uploads an audio file for transcription and follows
// the job until its transcript is ready.
//
//	audioscript --language en --detect-language=false interview.mp3
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
