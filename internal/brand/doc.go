// Package brand defines the metadata record produced for every resolved host.
package brand
