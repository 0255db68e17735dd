package redis

import "fmt"

// Key prefix for all wedding planner data
const keyPrefix = "wedplan"

// sessionKey returns the Redis key for a session record
func sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}
