package redis

const (
	// KeyPrefix namespaces every key written by LinkPulse
	KeyPrefix = "linkpulse:"
	// KeyPrefixEnrichment is the prefix for cached enrichments
	KeyPrefixEnrichment = KeyPrefix + "enrich:"
)

// SlotKey returns the Redis key backing a KV slot
func SlotKey(key string) string {
	return KeyPrefix + key
}

// EnrichmentKey returns the Redis key for the cached enrichment of a URL
func EnrichmentKey(url string) string {
	return KeyPrefixEnrichment + url
}
