package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/seekerror/logw"
)

// ReadStdinLines reads stdin lines into a chan, closing it on EOF. Async.
func ReadStdinLines(ctx context.Context) <-chan string {
	return ReadLines(ctx, os.Stdin)
}

// ReadLines reads lines from r into a chan, closing it on EOF. Async.
func ReadLines(ctx context.Context, r io.Reader) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			logw.Debugf(ctx, "<< %v", scanner.Text())
			ret <- scanner.Text()
		}
	}()
	return ret
}

// WriteStdoutLines writes lines from the given chan to stdout.
func WriteStdoutLines(ctx context.Context, out <-chan string) {
	for line := range out {
		logw.Debugf(ctx, ">> %v", line)
		_, _ = fmt.Fprintln(os.Stdout, line)
	}
}
