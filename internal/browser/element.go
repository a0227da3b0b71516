// File: internal/browser/element.go
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// chromeElement is a handle to one DOM node. The node reference can go
// stale when the page re-renders; callers treat per-element errors as
// recoverable and re-enumerate on the next cycle.
type chromeElement struct {
	sess *chromeSession
	node *cdp.Node
}

var _ Element = (*chromeElement)(nil)

// Text returns the element's rendered text.
func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.sess.run(ctx, e.sess.queryTimeout(),
		chromedp.Text(e.node.FullXPath(), &text, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return "", fmt.Errorf("reading element text failed: %w", err)
	}
	return text, nil
}

// Attribute returns the named attribute and whether it is present.
func (e *chromeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	var value string
	var ok bool
	err := e.sess.run(ctx, e.sess.queryTimeout(),
		chromedp.AttributeValue(e.node.FullXPath(), name, &value, &ok, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return "", false, fmt.Errorf("reading attribute %q failed: %w", name, err)
	}
	return value, ok, nil
}

// Click dispatches a mouse click at the node's current position.
func (e *chromeElement) Click(ctx context.Context) error {
	err := e.sess.run(ctx, e.sess.queryTimeout(), chromedp.MouseClickNode(e.node))
	if err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Fill types the given value into the element.
func (e *chromeElement) Fill(ctx context.Context, value string) error {
	err := e.sess.run(ctx, e.sess.queryTimeout(),
		chromedp.SendKeys(e.node.FullXPath(), value, chromedp.BySearch))
	if err != nil {
		return fmt.Errorf("filling element failed: %w", err)
	}
	return nil
}
