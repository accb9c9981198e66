// Package sink writes metadata records to a byte stream.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/JakeFAU/brandscan/internal/brand"
)

// Sink receives metadata records in the order a strategy emits them.
type Sink interface {
	Append(site brand.Site) error
	Flush() error
}

// CSVWriter writes one "domain, logo, favicon" line per record through a
// buffered writer. Output is only guaranteed to reach the underlying writer
// after Flush.
type CSVWriter struct {
	mu  sync.Mutex
	buf *bufio.Writer
}

// NewCSVWriter wraps w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{buf: bufio.NewWriter(w)}
}

// Stdout returns a CSVWriter over the process standard output.
func Stdout() *CSVWriter {
	return NewCSVWriter(os.Stdout)
}

// Append writes site as a single newline-terminated line.
func (c *CSVWriter) Append(site brand.Site) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.buf, site.CSV()); err != nil {
		return fmt.Errorf("write record %q: %w", site.Domain, err)
	}
	return nil
}

// Flush pushes buffered lines to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	return nil
}

// Discard counts records and drops them. Used when only timing matters.
type Discard struct {
	mu    sync.Mutex
	count int
}

// Append implements Sink.
func (d *Discard) Append(brand.Site) error {
	d.mu.Lock()
	d.count++
	d.mu.Unlock()
	return nil
}

// Flush implements Sink.
func (d *Discard) Flush() error { return nil }

// Count returns how many records were appended.
func (d *Discard) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Collector keeps every record in memory, in append order.
type Collector struct {
	mu    sync.Mutex
	sites []brand.Site
}

// Append implements Sink.
func (c *Collector) Append(site brand.Site) error {
	c.mu.Lock()
	c.sites = append(c.sites, site)
	c.mu.Unlock()
	return nil
}

// Flush implements Sink.
func (c *Collector) Flush() error { return nil }

// Sites returns a copy of the collected records.
func (c *Collector) Sites() []brand.Site {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]brand.Site(nil), c.sites...)
}
