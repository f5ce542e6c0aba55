package testutil

import (
	"fmt"

	"github.com/google/uuid"
)

// RandomEmail returns a unique email address for test registration.
func RandomEmail() string {
	return fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8])
}

// RandomName returns a unique display name.
func RandomName() string {
	return fmt.Sprintf("Test User %s", uuid.NewString()[:8])
}

// RandomProductName returns a unique product name.
func RandomProductName() string {
	return fmt.Sprintf("Handwoven Basket %s", uuid.NewString()[:8])
}
