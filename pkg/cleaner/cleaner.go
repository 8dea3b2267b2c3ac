// Package cleaner provides the Cleaner interface and generic cleaners
// that can be chained around the sanitizer.
package cleaner

// Cleaner transforms HTML content.
type Cleaner interface {
	// Clean transforms the input HTML.
	Clean(html string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
