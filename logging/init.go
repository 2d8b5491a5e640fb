package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/trustguard/trustguard/version"
)

func init() {
	configure(os.Stdout, filepath.Base(os.Args[0]))
}

func configure(w io.Writer, binary string) {
	log.SetOutput(w)
	log.SetPrefix("[trustguard " + binary + "] ")
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
}

func PrintVersion() {
	log.Println("Version:", version.Revision)
}

// UseStderr - moves process logs off stdout, for tools whose stdout is their actual output.
func UseStderr() {
	log.SetOutput(os.Stderr)
}
