package repository

import "context"

// EntitlementRepository describes the per-user set of owned courses.
// Grants are append-only: this flow never revokes a course.
type EntitlementRepository interface {
	Grant(ctx context.Context, userID string, courseIDs []string) error
	List(ctx context.Context, userID string) ([]string, error)
	Has(ctx context.Context, userID, courseID string) (bool, error)
}
