package utilities

// Contains checks if a value is present in a slice, used for role lists.
func Contains[T comparable](slice []T, v T) bool {
	for _, item := range slice {
		if item == v {
			return true
		}
	}
	return false
}
