package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Purchases() PurchaseRepository
	Entitlements() EntitlementRepository
}
