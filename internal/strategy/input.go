package strategy

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineBytes = 1024 * 1024

// scanHosts calls fn once per line of in, in order. Every line is a host,
// blank ones included; only a trailing "\r" is removed.
func scanHosts(in io.Reader, fn func(host string) error) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		host := strings.TrimSuffix(scanner.Text(), "\r")
		if err := fn(host); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read hosts: %w", err)
	}
	return nil
}

// Lines is a convenience reader over hosts, one per line. Reading it back
// with scanHosts yields exactly hosts, blank entries included.
func Lines(hosts ...string) io.Reader {
	if len(hosts) == 0 {
		return strings.NewReader("")
	}
	return strings.NewReader(strings.Join(hosts, "\n") + "\n")
}

// ReadHosts collects every line of in as a host.
func ReadHosts(in io.Reader) ([]string, error) {
	var hosts []string
	err := scanHosts(in, func(host string) error {
		hosts = append(hosts, host)
		return nil
	})
	return hosts, err
}
