package cache

import "strings"

const (
	GlobalKeyPrefix = "pawcheck"

	ServiceAssessment = "assessment"

	ObjectPending = "pending"
	ObjectHistory = "history"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// PendingResultKey is the key of an evaluated result that has not been recorded yet.
func PendingResultKey(resultID string) string {
	return GenerateCacheKey(ServiceAssessment, ObjectPending, resultID)
}

// HistoryKey is the key of a pet's capped history list.
func HistoryKey(petID string) string {
	return GenerateCacheKey(ServiceAssessment, ObjectHistory, petID)
}
