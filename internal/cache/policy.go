package cache

import "time"

type Kind string

const (
	KindUser    Kind = "user"
	KindOrder   Kind = "order"
	KindProduct Kind = "product"
)

// TTL returns the cache tier for the entity kind: hours for stable account
// data, minutes for transactional and catalog data.
func (k Kind) TTL() time.Duration {
	switch k {
	case KindUser:
		return 2 * time.Hour
	case KindOrder:
		return 5 * time.Minute
	case KindProduct:
		return 15 * time.Minute
	default:
		return 5 * time.Minute
	}
}
