package config

import (
	"fmt"
	"log"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

// Validate reports the first required setting that is missing for the
// selected store driver.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("missing required env DATABASE_URL")
		}
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("missing required env MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	required := []struct {
		name  string
		value []byte
	}{
		{"JWT_SECRET", c.JWTAccessSecret},
		{"JWT_REFRESH_SECRET", c.JWTRefreshSecret},
		{"RAZORPAY_KEY_ID", []byte(c.RazorpayKeyID)},
		{"RAZORPAY_KEY_SECRET", c.RazorpayKeySecret},
	}
	for _, r := range required {
		if len(r.value) == 0 {
			return fmt.Errorf("missing required env %s", r.name)
		}
	}
	return nil
}
