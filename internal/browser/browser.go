// File: internal/browser/browser.go
// Description: Capability interfaces over the automation driver. The watch
// loop only ever talks to these, so it can be exercised against fakes
// without a real browser.

package browser

import "context"

// Element is a handle to a single DOM element.
type Element interface {
	// Text returns the element's rendered text.
	Text(ctx context.Context) (string, error)
	// Attribute returns the named attribute and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)
	// Click dispatches a mouse click on the element.
	Click(ctx context.Context) error
	// Fill types the given value into the element.
	Fill(ctx context.Context, value string) error
}

// Page exposes the DOM queries the watch loop needs. All finders return
// handles in document order and an empty slice, not an error, when
// nothing matches.
type Page interface {
	Navigate(ctx context.Context, url string) error
	FindByTextContains(ctx context.Context, substr string) ([]Element, error)
	FindBySelector(ctx context.Context, selector string) ([]Element, error)
	FindByTag(ctx context.Context, tag string) ([]Element, error)
}

// Session is a live browser context bound to one browser instance and one
// navigation history. Close is idempotent and must be called on every
// exit path.
type Session interface {
	Page
	ID() string
	Close(ctx context.Context) error
}
