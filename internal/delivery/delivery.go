// Package delivery defines the contract every transport front end satisfies.
package delivery

import "context"

// Delivery is a serving surface with a blocking Serve loop. Shutdown is
// handled through the application lifecycle, not through ctx.
type Delivery interface {
	Serve(ctx context.Context) error
}
