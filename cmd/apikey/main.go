// Command apikey prints the bcrypt hash to put in API_KEY_HASH. The key is
// read from the first line of stdin so it stays out of shell history.
//
//	printf '%s' "$SCANNER_KEY" | apikey
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lorrc/scan-relay/internal/auth"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		slog.Error("failed to hash api key", "error", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read key: %w", err)
	}

	key := strings.TrimRight(line, "\r\n")
	if key == "" {
		return errors.New("no key on stdin")
	}

	hash, err := auth.HashAPIKey(key)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, hash)
	return err
}
