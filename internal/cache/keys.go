package cache

import "time"

const (
	// product:{id} -> JSON encoded product
	KeyProduct = "product:%s"
)

var TTLProduct = 5 * time.Minute
