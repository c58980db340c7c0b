// Package services defines the shared error taxonomy used to classify
// failures across the lookup pipeline and map them onto API responses.
package services
